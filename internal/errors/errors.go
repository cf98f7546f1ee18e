// Package errors defines the error types used throughout the modem link SDK.
package errors

import (
	"errors"
	"fmt"
)

// LinkError is the base interface for all modem link errors.
type LinkError interface {
	error
	IsLinkError() bool
}

// Compile-time verification that all error types implement LinkError.
var (
	_ LinkError = (*TransportClosedError)(nil)
	_ LinkError = (*ConfigError)(nil)
	_ LinkError = (*ScriptError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrLinkClosed indicates the transport endpoint has been closed.
	ErrLinkClosed = errors.New("link closed")

	// ErrNoTransport indicates a component was constructed without a transport.
	ErrNoTransport = errors.New("no transport configured")

	// ErrEmptyScript indicates the driver was given no commands to send.
	ErrEmptyScript = errors.New("empty command script")

	// ErrProbeTimeout indicates a one-shot probe received no reply bytes
	// within its reply window.
	ErrProbeTimeout = errors.New("probe timeout: no reply received")
)

// TransportClosedError indicates an operation was attempted on a closed
// transport endpoint. It wraps ErrLinkClosed so errors.Is works on both.
type TransportClosedError struct {
	Op string // "read" or "write"
}

func (e *TransportClosedError) Error() string {
	return fmt.Sprintf("transport %s on closed link", e.Op)
}

func (e *TransportClosedError) Unwrap() error {
	return ErrLinkClosed
}

// IsLinkError implements LinkError.
func (e *TransportClosedError) IsLinkError() bool { return true }

// ConfigError indicates an invalid configuration value.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsLinkError implements LinkError.
func (e *ConfigError) IsLinkError() bool { return true }

// ScriptError indicates a malformed driver script entry.
type ScriptError struct {
	Index int
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script entry %d: %v", e.Index, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// IsLinkError implements LinkError.
func (e *ScriptError) IsLinkError() bool { return true }
