package modemlink

import "github.com/wagiedev/modem-link-go/internal/errors"

// Re-export error types from internal package

// TransportClosedError indicates an operation on a closed transport endpoint.
type TransportClosedError = errors.TransportClosedError

// ConfigError indicates an invalid configuration value.
type ConfigError = errors.ConfigError

// ScriptError indicates a malformed driver script entry.
type ScriptError = errors.ScriptError

// LinkError is the base interface for all modem link errors.
type LinkError = errors.LinkError

// Re-export sentinel errors from internal package.
var (
	// ErrLinkClosed indicates the transport endpoint has been closed.
	ErrLinkClosed = errors.ErrLinkClosed

	// ErrNoTransport indicates a component was constructed without a transport.
	ErrNoTransport = errors.ErrNoTransport

	// ErrEmptyScript indicates the driver was given no commands to send.
	ErrEmptyScript = errors.ErrEmptyScript

	// ErrProbeTimeout indicates a one-shot probe received no reply bytes
	// within its reply window.
	ErrProbeTimeout = errors.ErrProbeTimeout
)
