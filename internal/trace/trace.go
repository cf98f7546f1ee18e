// Package trace records diagnostic events from the protocol loops: lines
// received, replies sent, overflows, timeouts. It is observability only; both
// loops run identically with a nil Recorder.
package trace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind identifies what a diagnostic event describes.
type Kind string

// Event kinds produced by the responder and driver loops.
const (
	KindLineReceived Kind = "line_received" // responder accumulated a complete line
	KindReplySent    Kind = "reply_sent"    // responder wrote a canned reply
	KindOverflow     Kind = "overflow"      // responder dropped an overlong line
	KindSend         Kind = "send"          // driver wrote a scripted command
	KindReply        Kind = "reply"         // driver read reply bytes
	KindNoResponse   Kind = "no_response"   // driver reply window elapsed empty
)

// Event is one diagnostic record. ID is the ULID the owning loop stamped on
// the exchange or dispatch, so it carries time-ordered identity and lets the
// events of one exchange (send and reply, line and reply) be correlated.
type Event struct {
	ID      string
	Kind    Kind
	Peer    string // "driver" or "responder"
	Payload []byte // line, command, or reply bytes; nil for timeouts
	Time    time.Time
}

// NewID mints a ULID for a new exchange or dispatch. Loops stamp their work
// with this regardless of whether a Recorder is attached, so outcomes and
// log lines always carry an identity.
func NewID() string {
	return ulid.Make().String()
}

// Recorder keeps the most recent events in a fixed ring and mirrors each one
// to its logger. Safe for concurrent use by both loops.
type Recorder struct {
	log *slog.Logger

	mu     sync.Mutex
	ring   []Event
	next   int
	total  uint64
	volume int
}

// DefaultVolume is the number of recent events retained when none is given.
const DefaultVolume = 256

// NewRecorder creates a recorder retaining the last volume events. A nil
// logger disables the slog mirror but still records events.
func NewRecorder(log *slog.Logger, volume int) *Recorder {
	if volume <= 0 {
		volume = DefaultVolume
	}
	if log != nil {
		log = log.With("component", "trace")
	}

	return &Recorder{
		log:    log,
		ring:   make([]Event, volume),
		volume: volume,
	}
}

// Record stores an event under the caller-supplied ID, typically one minted
// with NewID when the exchange began. Nil-receiver safe: with tracing
// disabled this is a no-op.
func (r *Recorder) Record(id string, kind Kind, peer string, payload []byte) {
	if r == nil {
		return
	}

	ev := Event{
		ID:   id,
		Kind: kind,
		Peer: peer,
		Time: time.Now(),
	}
	if payload != nil {
		ev.Payload = append([]byte(nil), payload...)
	}

	r.mu.Lock()
	r.ring[r.next] = ev
	r.next = (r.next + 1) % r.volume
	r.total++
	r.mu.Unlock()

	if r.log != nil {
		r.log.Debug("trace event",
			"id", ev.ID,
			"kind", string(ev.Kind),
			"peer", ev.Peer,
			"bytes", len(ev.Payload),
			"payload", string(ev.Payload),
		)
	}
}

// Recent returns up to n of the most recent events, newest first.
func (r *Recorder) Recent(n int) []Event {
	if r == nil || n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := int(r.total)
	if stored > r.volume {
		stored = r.volume
	}
	if n > stored {
		n = stored
	}

	out := make([]Event, 0, n)
	idx := r.next
	for range n {
		idx--
		if idx < 0 {
			idx = r.volume - 1
		}
		out = append(out, r.ring[idx])
	}

	return out
}

// Total returns the number of events recorded since creation (may exceed the
// ring volume).
func (r *Recorder) Total() uint64 {
	if r == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.total
}
