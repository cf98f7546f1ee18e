package pipe

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/wagiedev/modem-link-go/internal/config"
	"github.com/wagiedev/modem-link-go/internal/errors"
)

const (
	// streamReadSize is the chunk size for the pump's underlying reads.
	streamReadSize = 4096
	// streamQueueDepth bounds chunks buffered between the pump and Read.
	// A full queue pauses the pump, which propagates back-pressure to the
	// underlying stream instead of dropping bytes.
	streamQueueDepth = 64
)

// Stream adapts any io.ReadWriter (net.Conn, serial port file, os.Pipe) to
// the Transport interface. A pump goroutine moves bytes from the underlying
// reader into a bounded queue so Read can honor a bounded timeout even when
// the underlying stream has no deadline support.
//
// Write is safe for concurrent use. Read is not: each endpoint is expected to
// have exactly one reading loop, which is how both protocol loops use their
// transports.
type Stream struct {
	log *slog.Logger
	rw  io.ReadWriter

	writeMu sync.Mutex

	chunks   chan []byte
	leftover []byte

	closeOnce sync.Once
	done      chan struct{}

	errMu   sync.Mutex
	pumpErr error
}

// Compile-time verification that Stream implements the Transport interface.
var _ config.Transport = (*Stream)(nil)

// NewStream wraps rw and starts its read pump. The logger receives debug
// messages for pump lifecycle events; use a nil logger for silence.
func NewStream(log *slog.Logger, rw io.ReadWriter) *Stream {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Stream{
		log:    log.With("component", "stream"),
		rw:     rw,
		chunks: make(chan []byte, streamQueueDepth),
		done:   make(chan struct{}),
	}

	go s.pump()

	return s
}

// pump copies the underlying stream into the chunk queue until EOF, a read
// error, or Close.
func (s *Stream) pump() {
	defer close(s.chunks)

	buf := make([]byte, streamReadSize)

	for {
		n, err := s.rw.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}

		if err != nil {
			if err != io.EOF {
				s.errMu.Lock()
				s.pumpErr = err
				s.errMu.Unlock()
			}
			s.log.Debug("read pump stopped", "error", err)

			return
		}

		select {
		case <-s.done:
			return
		default:
		}
	}
}

// Write sends p to the underlying stream. Writes are serialized; the
// underlying writer's own blocking (socket buffers, tty flow control)
// provides the back-pressure delay.
func (s *Stream) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-s.done:
		return &errors.TransportClosedError{Op: "write"}
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.rw.Write(p)

	return err
}

// Read returns 0..max bytes, waiting at most timeout for the first chunk.
// An empty slice with nil error means the timeout elapsed. After the
// underlying stream ends, buffered chunks drain first, then Read reports the
// pump error (or a closed-transport error on clean EOF).
func (s *Stream) Read(ctx context.Context, max int, timeout time.Duration) ([]byte, error) {
	if max <= 0 {
		return nil, nil
	}

	if len(s.leftover) == 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.errMu.Lock()
				err := s.pumpErr
				s.errMu.Unlock()

				if err != nil {
					return nil, err
				}

				return nil, &errors.TransportClosedError{Op: "read"}
			}
			s.leftover = chunk
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	n := len(s.leftover)
	if n > max {
		n = max
	}
	out := s.leftover[:n:n]
	s.leftover = s.leftover[n:]

	return out, nil
}

// Close stops the pump and closes the underlying stream if it is an
// io.Closer. Safe to call multiple times.
func (s *Stream) Close() error {
	var err error

	s.closeOnce.Do(func() {
		close(s.done)

		if c, ok := s.rw.(io.Closer); ok {
			err = c.Close()
		}
	})

	return err
}
