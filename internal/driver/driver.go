// Package driver implements the controller side of the link: it cycles
// through a scripted sequence of commands, giving the peer a bounded window
// to reply after each one.
package driver

import (
	"context"
	stderrors "errors"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wagiedev/modem-link-go/internal/config"
	"github.com/wagiedev/modem-link-go/internal/errors"
	"github.com/wagiedev/modem-link-go/internal/trace"
)

// outcomeQueueDepth bounds outcomes buffered for observers. When nobody is
// consuming, older outcomes are dropped so the loop never stalls on its own
// observability channel.
const outcomeQueueDepth = 64

// Outcome reports the result of one scripted exchange.
type Outcome struct {
	// Command is the scripted command text, without terminator.
	Command string

	// Reply holds the bytes read back, nil when TimedOut.
	Reply []byte

	// TimedOut is true when no bytes arrived within the reply window.
	TimedOut bool

	// Cycle counts completed passes through the script, starting at 0.
	Cycle uint64

	// Index is the command's position in the script.
	Index int

	// TraceID correlates this exchange's trace events.
	TraceID string
}

// Stats holds driver counters for monitoring.
type Stats struct {
	Sent       uint64
	Replies    uint64
	NoResponse uint64
	Cycles     uint64
}

// Driver runs the scripted send/wait/cooldown loop. It never terminates on
// protocol outcomes: a silent peer is reported as a no-response and the
// script proceeds. The loop exits only on context cancellation or transport
// teardown.
type Driver struct {
	log       *slog.Logger
	transport config.Transport
	script    []string
	recorder  *trace.Recorder
	opts      *config.Options

	outcomes chan Outcome

	sent       atomic.Uint64
	replies    atomic.Uint64
	noResponse atomic.Uint64
	cycles     atomic.Uint64
}

// New creates a driver over the given transport. Script entries must be
// non-empty and must not contain terminator bytes; the driver appends the
// "\r\n" terminator itself when sending.
func New(transport config.Transport, opts *config.Options) (*Driver, error) {
	if transport == nil {
		return nil, errors.ErrNoTransport
	}
	if opts == nil {
		opts = &config.Options{}
	}
	// A nil script means "use the default cycle"; an explicitly empty one
	// is a caller mistake.
	if opts.Script != nil && len(opts.Script) == 0 {
		return nil, errors.ErrEmptyScript
	}
	opts.Normalize()
	for i, cmd := range opts.Script {
		if cmd == "" {
			return nil, &errors.ScriptError{Index: i, Err: stderrors.New("empty command")}
		}
		if strings.ContainsAny(cmd, "\r\n") {
			return nil, &errors.ScriptError{Index: i, Err: stderrors.New("command contains terminator bytes")}
		}
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Driver{
		log:       log.With("component", "driver"),
		transport: transport,
		script:    opts.Script,
		recorder:  opts.Recorder,
		opts:      opts,
		outcomes:  make(chan Outcome, outcomeQueueDepth),
	}, nil
}

// Outcomes returns the channel of exchange results. The channel is never
// closed; it stops producing when Run returns. Slow consumers lose oldest
// outcomes rather than stalling the loop.
func (d *Driver) Outcomes() <-chan Outcome {
	return d.outcomes
}

// ReceiveOutcomes returns an iterator over exchange results. Iteration ends
// when ctx is done, yielding the context error as its final element; a
// consumer can also stop early by breaking out of the range.
func (d *Driver) ReceiveOutcomes(ctx context.Context) iter.Seq2[Outcome, error] {
	return func(yield func(Outcome, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield(Outcome{}, ctx.Err())
				return
			case o := <-d.outcomes:
				if !yield(o, nil) {
					return
				}
			}
		}
	}
}

// Run cycles through the script until ctx is done: send, settle, one bounded
// reply read, cooldown, next command, wrapping around indefinitely.
//
// Run returns ctx.Err() on cancellation, or a transport error if the link is
// torn down underneath it.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info("driver started",
		"script", d.script,
		"settle", d.opts.SettleDelay,
		"reply_timeout", d.opts.ReplyTimeout,
		"cooldown", d.opts.Cooldown,
	)

	for {
		cycle := d.cycles.Load()

		for i, cmd := range d.script {
			outcome, err := d.exchange(ctx, cycle, i, cmd)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				return err
			}
			d.publish(outcome)

			if err := sleep(ctx, d.opts.Cooldown); err != nil {
				return err
			}
		}

		d.cycles.Add(1)
	}
}

// Probe performs a single exchange outside the scripted loop: send the
// command, settle, one bounded reply read. No cooldown follows and the
// outcome is not published to the Outcomes channel. A silent peer yields an
// outcome with TimedOut set, not an error.
func (d *Driver) Probe(ctx context.Context, cmd string) (Outcome, error) {
	if cmd == "" {
		return Outcome{}, &errors.ScriptError{Index: 0, Err: stderrors.New("empty command")}
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return Outcome{}, &errors.ScriptError{Index: 0, Err: stderrors.New("command contains terminator bytes")}
	}

	return d.exchange(ctx, d.cycles.Load(), 0, cmd)
}

// exchange performs one send / settle / bounded-read sequence.
func (d *Driver) exchange(ctx context.Context, cycle uint64, index int, cmd string) (Outcome, error) {
	wire := append([]byte(cmd), '\r', '\n')

	// The exchange carries its ULID whether or not a Recorder is attached.
	id := trace.NewID()
	d.recorder.Record(id, trace.KindSend, "driver", []byte(cmd))
	d.log.Info("sending", "command", cmd, "trace_id", id)

	// Blocks under back-pressure until the peer's receive side drains.
	if err := d.transport.Write(ctx, wire); err != nil {
		return Outcome{}, err
	}
	d.sent.Add(1)

	// Give the peer time to accumulate, classify, and start replying.
	if err := sleep(ctx, d.opts.SettleDelay); err != nil {
		return Outcome{}, err
	}

	reply, err := d.transport.Read(ctx, d.opts.MaxReplyBytes, d.opts.ReplyTimeout)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Command: cmd,
		Cycle:   cycle,
		Index:   index,
		TraceID: id,
	}

	if len(reply) > 0 {
		// Whatever one bounded read returned is treated as the whole
		// reply; this side does no further accumulation.
		outcome.Reply = reply
		d.replies.Add(1)
		d.recorder.Record(id, trace.KindReply, "driver", reply)
		d.log.Info("response", "command", cmd, "bytes", len(reply), "reply", string(reply), "trace_id", id)
	} else {
		outcome.TimedOut = true
		d.noResponse.Add(1)
		d.recorder.Record(id, trace.KindNoResponse, "driver", nil)
		d.log.Warn("no response received", "command", cmd, "trace_id", id)
	}

	return outcome, nil
}

// publish offers the outcome to observers, evicting the oldest entry if the
// queue is full.
func (d *Driver) publish(o Outcome) {
	for {
		select {
		case d.outcomes <- o:
			return
		default:
		}

		select {
		case <-d.outcomes:
		default:
		}
	}
}

// Stats returns a snapshot of the driver's counters.
func (d *Driver) Stats() Stats {
	return Stats{
		Sent:       d.sent.Load(),
		Replies:    d.replies.Load(),
		NoResponse: d.noResponse.Load(),
		Cycles:     d.cycles.Load(),
	}
}

// sleep blocks for dur or until ctx is done, whichever comes first.
func sleep(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
