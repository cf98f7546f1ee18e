// Package responder implements the device side of the link: it accumulates
// incoming bytes into command lines and answers each one with its canned
// reply.
package responder

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/wagiedev/modem-link-go/internal/command"
	"github.com/wagiedev/modem-link-go/internal/config"
	"github.com/wagiedev/modem-link-go/internal/errors"
	"github.com/wagiedev/modem-link-go/internal/line"
	"github.com/wagiedev/modem-link-go/internal/trace"
)

// Stats holds responder counters for monitoring. All fields are sampled
// atomically and safe to request while the loop runs.
type Stats struct {
	BytesRead uint64
	Lines     uint64
	Replies   uint64
	Overflows uint64
}

// Responder runs the accumulate/classify/reply loop over a transport. It has
// no terminal state of its own: read timeouts are silent, overlong lines are
// dropped and counted, and every accumulated line gets exactly one reply.
// The loop exits only when its context is cancelled or the transport fails.
type Responder struct {
	log       *slog.Logger
	transport config.Transport
	table     *command.Table
	acc       *line.Accumulator
	recorder  *trace.Recorder
	opts      *config.Options

	bytesRead atomic.Uint64
	lines     atomic.Uint64
	replies   atomic.Uint64
}

// New creates a responder over the given transport.
func New(transport config.Transport, opts *config.Options) (*Responder, error) {
	if transport == nil {
		return nil, errors.ErrNoTransport
	}
	if opts == nil {
		opts = &config.Options{}
	}
	opts.Normalize()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Responder{
		log:       log.With("component", "responder"),
		transport: transport,
		table:     opts.Table,
		acc:       line.NewAccumulator(opts.LineCapacity),
		recorder:  opts.Recorder,
		opts:      opts,
	}

	r.acc.SetOverflowFunc(func(discarded int) {
		r.recorder.Record(trace.NewID(), trace.KindOverflow, "responder", nil)
		r.log.Warn("line too long, discarding", "bytes", discarded)
	})

	return r, nil
}

// Run executes the loop until ctx is done. Each iteration performs one
// bounded read of a single byte; a timeout re-enters the wait with no state
// change. A byte completing a line triggers classification and a blocking
// reply write before the next read begins, so dispatches within the loop are
// strictly sequential.
//
// Run returns ctx.Err() on cancellation, or a transport error if the link is
// torn down underneath it. It never returns because of protocol content.
func (r *Responder) Run(ctx context.Context) error {
	r.log.Info("responder started",
		"line_capacity", r.acc.Capacity(),
		"read_poll", r.opts.ReadPollInterval,
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf, err := r.transport.Read(ctx, 1, r.opts.ReadPollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return err
		}
		if len(buf) == 0 {
			// Read window elapsed with no byte. Expected; try again.
			continue
		}

		r.bytesRead.Add(uint64(len(buf)))

		for _, b := range buf {
			completed, ok := r.acc.Feed(b)
			if !ok {
				continue
			}

			if err := r.dispatch(ctx, completed); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				return err
			}
		}
	}
}

// dispatch classifies one completed line and writes its reply. The write
// blocks under back-pressure until the peer drains.
func (r *Responder) dispatch(ctx context.Context, completed []byte) error {
	r.lines.Add(1)

	id := trace.NewID()
	r.recorder.Record(id, trace.KindLineReceived, "responder", completed)
	r.log.Info("received", "line", string(completed), "trace_id", id)

	reply := r.table.Respond(completed)
	if err := r.transport.Write(ctx, reply); err != nil {
		return err
	}

	r.replies.Add(1)
	r.recorder.Record(id, trace.KindReplySent, "responder", reply)
	r.log.Debug("replied", "bytes", len(reply), "trace_id", id)

	return nil
}

// Stats returns a snapshot of the responder's counters.
func (r *Responder) Stats() Stats {
	return Stats{
		BytesRead: r.bytesRead.Load(),
		Lines:     r.lines.Load(),
		Replies:   r.replies.Load(),
		Overflows: r.acc.Overflows(),
	}
}
