package modemlink

import (
	"io"
	"log/slog"

	"github.com/wagiedev/modem-link-go/internal/command"
	"github.com/wagiedev/modem-link-go/internal/driver"
	"github.com/wagiedev/modem-link-go/internal/pipe"
	"github.com/wagiedev/modem-link-go/internal/responder"
	"github.com/wagiedev/modem-link-go/internal/trace"
)

// Responder is the device side of the link: it accumulates incoming bytes
// into command lines and answers each with its canned reply.
type Responder = responder.Responder

// ResponderStats holds responder counters for monitoring.
type ResponderStats = responder.Stats

// Driver is the controller side of the link: it cycles through scripted
// commands with a bounded wait for each reply.
type Driver = driver.Driver

// DriverStats holds driver counters for monitoring.
type DriverStats = driver.Stats

// Outcome reports the result of one driver exchange.
type Outcome = driver.Outcome

// Entry is one pattern/reply pair in a command table.
type Entry = command.Entry

// Table maps accumulated lines to reply byte sequences.
type Table = command.Table

// Endpoint is one end of an in-memory full-duplex link.
type Endpoint = pipe.Endpoint

// Stream adapts any io.ReadWriter to the Transport interface.
type Stream = pipe.Stream

// Recorder keeps recent diagnostic events and mirrors them to a logger.
type Recorder = trace.Recorder

// TraceEvent is one recorded diagnostic event.
type TraceEvent = trace.Event

// NewResponder creates a responder over the given transport.
func NewResponder(t Transport, opts ...Option) (*Responder, error) {
	return responder.New(t, applyOptions(opts))
}

// NewDriver creates a driver over the given transport.
func NewDriver(t Transport, opts ...Option) (*Driver, error) {
	return driver.New(t, applyOptions(opts))
}

// NewTable builds a command table from explicit entries and a default reply.
func NewTable(entries []Entry, defaultReply []byte) *Table {
	return command.NewTable(entries, defaultReply)
}

// DefaultTable returns the fixed AT vocabulary of the simulated modem.
func DefaultTable() *Table {
	return command.DefaultTable()
}

// Link creates an in-memory full-duplex byte channel with modeled hardware
// flow control and returns its two ends. capacity bounds each direction's
// buffer; values below 1 use a default sized like a UART RX ring.
func Link(capacity int) (*Endpoint, *Endpoint) {
	return pipe.Link(capacity)
}

// NewStream wraps an io.ReadWriter (net.Conn, serial device, os.Pipe) as a
// Transport and starts its read pump.
func NewStream(log *slog.Logger, rw io.ReadWriter) *Stream {
	return pipe.NewStream(log, rw)
}

// NewRecorder creates a diagnostics recorder retaining the last volume
// events. A nil logger disables the slog mirror but still records events.
func NewRecorder(log *slog.Logger, volume int) *Recorder {
	return trace.NewRecorder(log, volume)
}
