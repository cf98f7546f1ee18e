package config

import (
	"log/slog"
	"time"

	"github.com/wagiedev/modem-link-go/internal/command"
	"github.com/wagiedev/modem-link-go/internal/trace"
)

// Defaults mirror the timing of the reference device this engine simulates:
// a 128-byte line buffer, a 100ms responder poll, and a driver that settles
// 200ms after sending, reads up to 127 reply bytes within 300ms, then cools
// down 2s before the next command.
const (
	DefaultLineCapacity     = 128
	DefaultReadPollInterval = 100 * time.Millisecond
	DefaultSettleDelay      = 200 * time.Millisecond
	DefaultReplyTimeout     = 300 * time.Millisecond
	DefaultCooldown         = 2 * time.Second
	DefaultMaxReplyBytes    = 127
	DefaultLinkCapacity     = 256
)

// DefaultScript is the fixed command cycle of the exerciser: an attention
// probe, a signal-quality query, and an intentionally unrecognized command.
// Entries carry no terminator; the driver appends "\r\n" on the wire.
func DefaultScript() []string {
	return []string{"AT", "AT+CSQ", "AT+UNKNOWN"}
}

// Options configures the protocol loops. The zero value is usable; Normalize
// fills in defaults.
type Options struct {
	// Logger is the slog logger for diagnostics.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Recorder receives diagnostic trace events. Optional.
	Recorder *trace.Recorder

	// Table is the responder's command vocabulary.
	// If nil, the fixed AT vocabulary is used.
	Table *command.Table

	// LineCapacity is the responder's line buffer size.
	LineCapacity int

	// ReadPollInterval bounds each responder read attempt.
	ReadPollInterval time.Duration

	// Script is the driver's command cycle, without terminators.
	Script []string

	// SettleDelay is the driver's pause between sending a command and
	// attempting to read the reply.
	SettleDelay time.Duration

	// ReplyTimeout bounds the driver's single reply read.
	ReplyTimeout time.Duration

	// Cooldown is the driver's pause after each exchange.
	Cooldown time.Duration

	// MaxReplyBytes caps the bytes collected from one reply read.
	MaxReplyBytes int

	// LinkCapacity is the per-direction buffer size of an in-memory link.
	LinkCapacity int
}

// Normalize fills unset fields with defaults and returns the receiver for
// chaining. A nil Logger stays nil; components treat that as silent.
func (o *Options) Normalize() *Options {
	if o.Table == nil {
		o.Table = command.DefaultTable()
	}
	if o.LineCapacity <= 0 {
		o.LineCapacity = DefaultLineCapacity
	}
	if o.ReadPollInterval <= 0 {
		o.ReadPollInterval = DefaultReadPollInterval
	}
	if len(o.Script) == 0 {
		o.Script = DefaultScript()
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.ReplyTimeout <= 0 {
		o.ReplyTimeout = DefaultReplyTimeout
	}
	if o.Cooldown <= 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.MaxReplyBytes <= 0 {
		o.MaxReplyBytes = DefaultMaxReplyBytes
	}
	if o.LinkCapacity <= 0 {
		o.LinkCapacity = DefaultLinkCapacity
	}

	return o
}
