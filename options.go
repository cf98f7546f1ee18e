package modemlink

import (
	"log/slog"
	"time"

	"github.com/wagiedev/modem-link-go/internal/command"
	"github.com/wagiedev/modem-link-go/internal/config"
	"github.com/wagiedev/modem-link-go/internal/trace"
)

// Options configures the protocol loops. Most callers use functional Option
// values instead of filling this struct directly.
type Options = config.Options

// Option configures Options using the functional options pattern.
// This is the primary option type for configuring responders, drivers,
// probes, and exercisers.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Shared Configuration =====

// WithLogger sets the logger for diagnostics.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRecorder attaches a diagnostics recorder. Trace events are
// observability only; loops behave identically without one.
func WithRecorder(rec *trace.Recorder) Option {
	return func(o *Options) {
		o.Recorder = rec
	}
}

// ===== Responder Configuration =====

// WithTable overrides the responder's command vocabulary.
func WithTable(t *command.Table) Option {
	return func(o *Options) {
		o.Table = t
	}
}

// WithLineCapacity sets the responder's line buffer size. Lines that would
// fill the buffer before a terminator arrives are dropped whole.
func WithLineCapacity(n int) Option {
	return func(o *Options) {
		o.LineCapacity = n
	}
}

// WithReadPollInterval bounds each responder read attempt. A read window
// elapsing with no byte is silent and the loop re-enters the wait.
func WithReadPollInterval(d time.Duration) Option {
	return func(o *Options) {
		o.ReadPollInterval = d
	}
}

// ===== Driver Configuration =====

// WithScript sets the driver's command cycle. Commands carry no terminator;
// the driver appends "\r\n" on the wire.
func WithScript(commands ...string) Option {
	return func(o *Options) {
		o.Script = commands
	}
}

// WithSettleDelay sets the driver's pause between sending a command and
// attempting to read the reply.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Options) {
		o.SettleDelay = d
	}
}

// WithReplyTimeout bounds the driver's single reply read per command.
func WithReplyTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReplyTimeout = d
	}
}

// WithCooldown sets the driver's pause after each exchange, giving the
// responder time to process and any back-pressure time to clear.
func WithCooldown(d time.Duration) Option {
	return func(o *Options) {
		o.Cooldown = d
	}
}

// WithMaxReplyBytes caps the bytes collected from one reply read.
func WithMaxReplyBytes(n int) Option {
	return func(o *Options) {
		o.MaxReplyBytes = n
	}
}

// ===== Link Configuration =====

// WithLinkCapacity sets the per-direction buffer size of the in-memory link
// built by NewExerciser.
func WithLinkCapacity(n int) Option {
	return func(o *Options) {
		o.LinkCapacity = n
	}
}
