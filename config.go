package modemlink

import (
	"log/slog"

	"github.com/wagiedev/modem-link-go/internal/config"
)

// LoadConfig reads a YAML configuration file describing the script, timing,
// capacities, and optional vocabulary overrides, and returns normalized
// Options. Example:
//
//	responder:
//	  line_capacity: 128
//	  read_poll_ms: 100
//	driver:
//	  script: ["AT", "AT+CSQ", "AT+UNKNOWN"]
//	  settle_ms: 200
//	  reply_timeout_ms: 300
//	  cooldown_ms: 2000
//	  max_reply_bytes: 127
//	link:
//	  capacity: 256
//	commands:
//	  - pattern: "AT+GMR"
//	    reply: "\r\n1.0.0\r\nOK\r\n"
func LoadConfig(path string) (*Options, error) {
	return config.Load(path)
}

// NewExerciserFromConfig builds an Exerciser from a YAML configuration file.
// The logger is passed separately since it is runtime wiring, not file
// configuration; nil means silent.
func NewExerciserFromConfig(path string, logger *slog.Logger) (*Exerciser, error) {
	options, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	options.Logger = logger

	return newExerciserFromOptions(options)
}

// newExerciserFromOptions is the shared construction path for option structs
// produced outside the functional-options flow.
func newExerciserFromOptions(options *Options) (*Exerciser, error) {
	return NewExerciser(func(o *Options) { *o = *options })
}
