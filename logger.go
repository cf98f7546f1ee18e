package modemlink

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger whose output goes nowhere. Both loops fall back
// to it when no logger is configured, so passing it explicitly just makes the
// silence intentional.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
