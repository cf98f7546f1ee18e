package modemlink

import "github.com/wagiedev/modem-link-go/internal/config"

// Transport defines the interface for the full-duplex byte channel between
// the two peers. Implement this to provide custom transports for testing,
// mocking, or real hardware (serial devices, sockets).
//
// The default implementations are the in-memory Link and the Stream adapter
// over an io.ReadWriter.
type Transport = config.Transport
