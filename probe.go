package modemlink

import (
	"context"

	"github.com/wagiedev/modem-link-go/internal/driver"
)

// Probe sends a single command over the transport and waits for one bounded
// reply read: send, settle delay, read up to the reply timeout. It is the
// one-shot counterpart of running a Driver with a one-command script.
//
// On a reply, the returned Outcome carries the reply bytes. If the peer stays
// silent past the reply window, Probe returns ErrProbeTimeout along with an
// Outcome whose TimedOut field is set, so callers can distinguish a silent
// peer from a transport failure with errors.Is.
func Probe(ctx context.Context, t Transport, cmd string, opts ...Option) (Outcome, error) {
	options := applyOptions(opts)
	options.Script = []string{cmd}

	d, err := driver.New(t, options)
	if err != nil {
		return Outcome{}, err
	}

	outcome, err := d.Probe(ctx, cmd)
	if err != nil {
		return Outcome{}, err
	}
	if outcome.TimedOut {
		return outcome, ErrProbeTimeout
	}

	return outcome, nil
}
