// Package pipe provides the byte transports the protocol loops run over: an
// in-memory full-duplex link that models hardware flow control, and an
// adapter over any io.ReadWriter for real serial devices or sockets.
package pipe

import (
	"context"
	"sync"
	"time"

	"github.com/wagiedev/modem-link-go/internal/config"
	"github.com/wagiedev/modem-link-go/internal/errors"
)

// DefaultCapacity is the per-direction buffer size of an in-memory link,
// sized like a UART driver's RX ring buffer.
const DefaultCapacity = 256

// half is one direction of the link: a bounded byte ring guarded by a single
// condition variable shared by the writer (peer endpoint) and reader (owning
// endpoint). ready models the receiver's RTS line: while false, writers stall
// even if the ring has room.
type half struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf    []byte
	head   int // index of oldest byte
	size   int // bytes currently buffered
	ready  bool
	closed bool
}

func newHalf(capacity int) *half {
	h := &half{
		buf:   make([]byte, capacity),
		ready: true,
	}
	h.cond = sync.NewCond(&h.mu)

	return h
}

// write blocks until every byte of p has been accepted, the context is
// cancelled, or the half is closed. Back-pressure (ring full or receiver not
// ready) delays the write; it never drops bytes.
func (h *half) write(ctx context.Context, p []byte) error {
	// Wake any cond.Wait when the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		h.mu.Lock()
		h.cond.Broadcast()
		h.mu.Unlock()
	})
	defer stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for len(p) > 0 {
		for !h.closed && (!h.ready || h.size == len(h.buf)) && ctx.Err() == nil {
			h.cond.Wait()
		}

		if h.closed {
			return &errors.TransportClosedError{Op: "write"}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		n := len(h.buf) - h.size
		if n > len(p) {
			n = len(p)
		}
		for i := range n {
			h.buf[(h.head+h.size+i)%len(h.buf)] = p[i]
		}
		h.size += n
		p = p[n:]

		h.cond.Broadcast()
	}

	return nil
}

// read returns up to max bytes, waiting at most timeout for the first byte.
// An empty result with nil error means the timeout elapsed. Buffered bytes
// remain readable after close; only an empty closed half reports an error.
func (h *half) read(ctx context.Context, max int, timeout time.Duration) ([]byte, error) {
	if max <= 0 {
		return nil, nil
	}

	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		h.mu.Lock()
		h.cond.Broadcast()
		h.mu.Unlock()
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		h.mu.Lock()
		h.cond.Broadcast()
		h.mu.Unlock()
	})
	defer stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for h.size == 0 {
		if h.closed {
			return nil, &errors.TransportClosedError{Op: "read"}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
		h.cond.Wait()
	}

	n := h.size
	if n > max {
		n = max
	}
	out := make([]byte, n)
	for i := range n {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	h.head = (h.head + n) % len(h.buf)
	h.size -= n

	// Room freed; wake blocked writers.
	h.cond.Broadcast()

	return out, nil
}

func (h *half) setReady(ready bool) {
	h.mu.Lock()
	h.ready = ready
	h.cond.Broadcast()
	h.mu.Unlock()
}

func (h *half) close() {
	h.mu.Lock()
	h.closed = true
	h.cond.Broadcast()
	h.mu.Unlock()
}

// Endpoint is one end of an in-memory full-duplex link. Writes go toward the
// peer; reads drain bytes the peer wrote. Both directions carry modeled flow
// control: an endpoint that declares itself not ready stalls the peer's
// writes until it is ready again.
type Endpoint struct {
	in  *half // peer -> us
	out *half // us -> peer
}

// Compile-time verification that Endpoint implements the Transport interface.
var _ config.Transport = (*Endpoint)(nil)

// Link creates an in-memory full-duplex byte channel and returns its two
// ends. capacity bounds each direction's buffer; values below 1 use
// DefaultCapacity.
func Link(capacity int) (*Endpoint, *Endpoint) {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	ab := newHalf(capacity)
	ba := newHalf(capacity)

	a := &Endpoint{in: ba, out: ab}
	b := &Endpoint{in: ab, out: ba}

	return a, b
}

// Write sends p toward the peer, blocking under back-pressure until every
// byte is accepted, the context is cancelled, or the link is closed.
func (e *Endpoint) Write(ctx context.Context, p []byte) error {
	return e.out.write(ctx, p)
}

// Read returns 0..max bytes, waiting at most timeout for the first byte.
// An empty slice with nil error means nothing arrived in time.
func (e *Endpoint) Read(ctx context.Context, max int, timeout time.Duration) ([]byte, error) {
	return e.in.read(ctx, max, timeout)
}

// SetReady asserts or deasserts this endpoint's readiness to receive, the
// in-memory equivalent of toggling RTS. While not ready, the peer's writes
// are delayed, never dropped.
func (e *Endpoint) SetReady(ready bool) {
	e.in.setReady(ready)
}

// Buffered returns the number of bytes waiting to be read at this endpoint.
func (e *Endpoint) Buffered() int {
	e.in.mu.Lock()
	defer e.in.mu.Unlock()

	return e.in.size
}

// Close shuts down both directions of the link for this endpoint. Bytes
// already buffered toward the peer remain readable. Safe to call multiple
// times.
func (e *Endpoint) Close() error {
	e.in.close()
	e.out.close()

	return nil
}
