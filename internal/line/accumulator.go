// Package line implements byte-at-a-time accumulation of CR/LF-terminated
// lines from a raw byte stream.
package line

import "sync/atomic"

// Line terminator bytes.
const (
	CR byte = 0x0D
	LF byte = 0x0A
)

// DefaultCapacity is the default line buffer size, enough for any realistic
// AT command string.
const DefaultCapacity = 128

// Accumulator consumes a byte stream one byte at a time and emits complete,
// terminator-stripped logical lines. Empty lines are discarded, which
// collapses CRLF pairs and tolerates stray terminators. A line that would
// fill the buffer before a terminator arrives is dropped whole; no partial or
// truncated line ever crosses the component boundary.
//
// The backing buffer is allocated once and reused for the accumulator's
// lifetime. Feed never blocks; the blocking/timeout decision belongs to the
// transport read that produces the bytes.
//
// An Accumulator is owned by a single loop and is not safe for concurrent
// Feed calls; the overflow counter is atomic so observers may sample it from
// other goroutines.
type Accumulator struct {
	buf    []byte
	cursor int

	overflows atomic.Uint64

	// Called on each overflow-drop, if set. Observability only; the
	// accumulator has already reset itself when this runs.
	onOverflow func(discarded int)
}

// NewAccumulator creates an accumulator with the given buffer capacity.
// Capacities below 2 are raised to DefaultCapacity, since a 1-byte buffer
// could never hold a line byte plus room for its terminator.
func NewAccumulator(capacity int) *Accumulator {
	if capacity < 2 {
		capacity = DefaultCapacity
	}

	return &Accumulator{buf: make([]byte, capacity)}
}

// SetOverflowFunc registers a callback invoked with the discarded byte count
// each time an overlong line is dropped. Must be called before feeding.
func (a *Accumulator) SetOverflowFunc(fn func(discarded int)) {
	a.onOverflow = fn
}

// Feed consumes one byte. When the byte completes a non-empty line, Feed
// returns that line (terminator stripped) and true. The returned slice is a
// copy; callers may retain it across subsequent Feed calls.
//
// Terminator bytes arriving with an empty buffer produce nothing. A byte that
// would leave no room for a terminator drops the whole accumulated line,
// resets the cursor, and counts one overflow; the dropped line is not
// emitted.
func (a *Accumulator) Feed(b byte) ([]byte, bool) {
	if b == CR || b == LF {
		if a.cursor == 0 {
			return nil, false
		}

		out := make([]byte, a.cursor)
		copy(out, a.buf[:a.cursor])
		a.cursor = 0

		return out, true
	}

	a.buf[a.cursor] = b
	a.cursor++

	if a.cursor >= len(a.buf)-1 {
		// Buffer full with no room left for a terminator: discard the
		// whole line rather than truncate.
		discarded := a.cursor
		a.cursor = 0
		a.overflows.Add(1)

		if a.onOverflow != nil {
			a.onOverflow(discarded)
		}
	}

	return nil, false
}

// Pending returns the number of bytes accumulated toward the current
// (incomplete) line.
func (a *Accumulator) Pending() int {
	return a.cursor
}

// Capacity returns the size of the backing buffer.
func (a *Accumulator) Capacity() int {
	return len(a.buf)
}

// Overflows returns the number of lines dropped for exceeding the buffer.
func (a *Accumulator) Overflows() uint64 {
	return a.overflows.Load()
}

// Reset discards any partially accumulated line.
func (a *Accumulator) Reset() {
	a.cursor = 0
}
