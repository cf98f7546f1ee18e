package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wagiedev/modem-link-go/internal/command"
	"github.com/wagiedev/modem-link-go/internal/errors"
)

// File is the YAML representation of an exerciser configuration.
type File struct {
	Responder ResponderConfig `yaml:"responder"`
	Driver    DriverConfig    `yaml:"driver"`
	Link      LinkConfig      `yaml:"link"`
	Commands  []CommandConfig `yaml:"commands"`

	// DefaultReply overrides the reply for unrecognized lines.
	DefaultReply string `yaml:"default_reply"`
}

// ResponderConfig contains responder loop settings.
type ResponderConfig struct {
	LineCapacity   int `yaml:"line_capacity"`
	ReadPollMillis int `yaml:"read_poll_ms"`
}

// DriverConfig contains driver loop settings.
type DriverConfig struct {
	Script         []string `yaml:"script"`
	SettleMillis   int      `yaml:"settle_ms"`
	ReplyTimeoutMS int      `yaml:"reply_timeout_ms"`
	CooldownMillis int      `yaml:"cooldown_ms"`
	MaxReplyBytes  int      `yaml:"max_reply_bytes"`
}

// LinkConfig contains in-memory link settings.
type LinkConfig struct {
	Capacity int `yaml:"capacity"`
}

// CommandConfig is one vocabulary entry. Reply strings may contain escaped
// CR/LF in double-quoted YAML ("\r\nOK\r\n").
type CommandConfig struct {
	Pattern string `yaml:"pattern"`
	Reply   string `yaml:"reply"`
}

// Load reads and validates a YAML configuration file and converts it to
// Options. Unset fields fall back to defaults via Normalize.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f.Options(), nil
}

// Validate checks field ranges and vocabulary entries.
func (f *File) Validate() error {
	if f.Responder.LineCapacity < 0 {
		return &errors.ConfigError{
			Field: "responder.line_capacity",
			Err:   stderrors.New("must not be negative"),
		}
	}
	if f.Responder.LineCapacity == 1 {
		return &errors.ConfigError{
			Field: "responder.line_capacity",
			Err:   stderrors.New("too small to hold a line and its terminator"),
		}
	}
	if f.Driver.MaxReplyBytes < 0 {
		return &errors.ConfigError{
			Field: "driver.max_reply_bytes",
			Err:   stderrors.New("must not be negative"),
		}
	}
	if f.Link.Capacity < 0 {
		return &errors.ConfigError{
			Field: "link.capacity",
			Err:   stderrors.New("must not be negative"),
		}
	}

	for i, c := range f.Commands {
		if c.Pattern == "" {
			return &errors.ConfigError{
				Field: fmt.Sprintf("commands[%d].pattern", i),
				Err:   stderrors.New("must not be empty"),
			}
		}
		if c.Reply == "" {
			return &errors.ConfigError{
				Field: fmt.Sprintf("commands[%d].reply", i),
				Err:   stderrors.New("must not be empty"),
			}
		}
	}

	return nil
}

// Options converts the file to a normalized Options value.
func (f *File) Options() *Options {
	o := &Options{
		LineCapacity:     f.Responder.LineCapacity,
		ReadPollInterval: time.Duration(f.Responder.ReadPollMillis) * time.Millisecond,
		Script:           f.Driver.Script,
		SettleDelay:      time.Duration(f.Driver.SettleMillis) * time.Millisecond,
		ReplyTimeout:     time.Duration(f.Driver.ReplyTimeoutMS) * time.Millisecond,
		Cooldown:         time.Duration(f.Driver.CooldownMillis) * time.Millisecond,
		MaxReplyBytes:    f.Driver.MaxReplyBytes,
		LinkCapacity:     f.Link.Capacity,
	}

	if len(f.Commands) > 0 || f.DefaultReply != "" {
		entries := make([]command.Entry, 0, len(f.Commands))
		for _, c := range f.Commands {
			entries = append(entries, command.Entry{
				Pattern: []byte(c.Pattern),
				Reply:   []byte(c.Reply),
			})
		}

		def := f.DefaultReply
		if def == "" {
			def = "\r\nERROR\r\n"
		}

		o.Table = command.NewTable(entries, []byte(def))
	}

	return o.Normalize()
}
