// Package config provides configuration types for the modem link SDK.
package config

import (
	"context"
	"time"
)

// Transport defines the interface for a full-duplex byte channel between the
// two peers. Implement this to plug in real serial hardware, sockets, or
// mocks; the engine never looks below this surface.
//
// The default implementations are the in-memory Link pipe (with modeled
// hardware flow control) and the Stream adapter over an io.ReadWriter.
type Transport interface {
	// Write sends p to the peer. It blocks until every byte has been
	// accepted by the channel: under back-pressure (receiver not ready,
	// channel full) the write is delayed, never dropped. It returns early
	// only when ctx is cancelled or the link is closed.
	Write(ctx context.Context, p []byte) error

	// Read returns between 0 and max bytes. It waits at most timeout for
	// the first byte to become available; an empty slice with a nil error
	// means the timeout elapsed with nothing to read, which is an expected
	// condition, not a failure. Read never blocks past timeout.
	Read(ctx context.Context, max int, timeout time.Duration) ([]byte, error)

	// Close shuts down this endpoint and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}
