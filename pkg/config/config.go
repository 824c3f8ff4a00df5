// Package config loads and validates the daemon configuration. A config
// file selects a board profile and may override any of its fields; built-in
// defaults fill whatever remains. Precedence is explicit field, then board
// profile, then built-in default.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acwatch/acwatch-go/pkg/board"
	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

const (
	DefaultChip               = "gpiochip0"
	DefaultDebounceSeconds    = 5
	DefaultWaitTimeoutSeconds = 5
	DefaultLogLevel           = "info"
)

// Config holds the daemon configuration.
type Config struct {
	// Board selects a built-in board profile ("x728"). Explicit fields
	// below override the profile.
	Board string `yaml:"board,omitempty"`

	GPIO     GPIOConfig     `yaml:"gpio"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Log      LogConfig      `yaml:"log"`
}

// GPIOConfig names the line to watch. Line and ActiveLow are pointers so
// an explicit 0/false can be told apart from unset when merging a profile.
type GPIOConfig struct {
	Chip      string `yaml:"chip"`
	Line      *int   `yaml:"line"`
	ActiveLow *bool  `yaml:"active_low"`
	Consumer  string `yaml:"consumer,omitempty"`
}

// MonitorConfig holds the debounce and event wait timings.
type MonitorConfig struct {
	DebounceSeconds    int `yaml:"debounce_seconds"`
	WaitTimeoutSeconds int `yaml:"wait_timeout_seconds"`
}

// ShutdownConfig names the helper invoked on confirmed power loss.
type ShutdownConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// LogConfig holds logging settings. EventLog is the power event log path;
// empty disables it.
type LogConfig struct {
	Level    string `yaml:"level"`
	EventLog string `yaml:"event_log,omitempty"`
}

// Default returns a configuration that selects the default board profile.
// ApplyDefaults resolves the profile into concrete fields.
func Default() *Config {
	return &Config{Board: board.Default}
}

// Load reads a configuration file. It does not apply defaults or validate;
// callers run ApplyDefaults and Validate after any overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields from the board profile, then from the
// built-in defaults. When nothing names a board or a line, the default
// board profile is assumed.
func (c *Config) ApplyDefaults() error {
	if c.Board == "" && c.GPIO.Chip == "" && c.GPIO.Line == nil {
		c.Board = board.Default
	}

	if c.Board != "" {
		p, err := board.Load(c.Board)
		if err != nil {
			return err
		}
		if c.GPIO.Chip == "" {
			c.GPIO.Chip = p.Chip
		}
		if c.GPIO.Line == nil {
			line := p.Line
			c.GPIO.Line = &line
		}
		if c.GPIO.ActiveLow == nil {
			al := p.ActiveLow
			c.GPIO.ActiveLow = &al
		}
		if c.Monitor.DebounceSeconds == 0 {
			c.Monitor.DebounceSeconds = p.DebounceSeconds
		}
		if c.Monitor.WaitTimeoutSeconds == 0 {
			c.Monitor.WaitTimeoutSeconds = p.WaitTimeoutSeconds
		}
		if c.Shutdown.Command == "" {
			c.Shutdown.Command = p.Shutdown.Command
			if c.Shutdown.Args == nil {
				c.Shutdown.Args = append([]string(nil), p.Shutdown.Args...)
			}
		}
	}

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = DefaultChip
	}
	if c.GPIO.ActiveLow == nil {
		c.GPIO.ActiveLow = new(bool)
	}
	if c.GPIO.Consumer == "" {
		c.GPIO.Consumer = gpio.DefaultConsumer
	}
	if c.Monitor.DebounceSeconds == 0 {
		c.Monitor.DebounceSeconds = DefaultDebounceSeconds
	}
	if c.Monitor.WaitTimeoutSeconds == 0 {
		c.Monitor.WaitTimeoutSeconds = DefaultWaitTimeoutSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	return nil
}

// Validate checks that the configuration is coherent. It expects defaults
// to be applied first.
func (c *Config) Validate() error {
	if c.GPIO.Chip == "" {
		return fmt.Errorf("invalid gpio.chip: must not be empty")
	}
	if c.GPIO.Line == nil {
		return fmt.Errorf("invalid gpio.line: must be set")
	}
	if *c.GPIO.Line < 0 {
		return fmt.Errorf("invalid gpio.line: must be >= 0, got %d", *c.GPIO.Line)
	}
	if c.Monitor.DebounceSeconds <= 0 {
		return fmt.Errorf("invalid monitor.debounce_seconds: must be > 0, got %d", c.Monitor.DebounceSeconds)
	}
	if c.Monitor.WaitTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid monitor.wait_timeout_seconds: must be > 0, got %d", c.Monitor.WaitTimeoutSeconds)
	}
	if c.Shutdown.Command == "" {
		return fmt.Errorf("invalid shutdown.command: must not be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// LineConfig returns the GPIO request configuration.
func (c *Config) LineConfig() gpio.Config {
	cfg := gpio.Config{
		Chip:     c.GPIO.Chip,
		Consumer: c.GPIO.Consumer,
	}
	if c.GPIO.Line != nil {
		cfg.Line = *c.GPIO.Line
	}
	if c.GPIO.ActiveLow != nil {
		cfg.ActiveLow = *c.GPIO.ActiveLow
	}
	return cfg
}

// Debounce returns the confirmation delay.
func (m *MonitorConfig) Debounce() time.Duration {
	return time.Duration(m.DebounceSeconds) * time.Second
}

// WaitTimeout returns the event wait timeout.
func (m *MonitorConfig) WaitTimeout() time.Duration {
	return time.Duration(m.WaitTimeoutSeconds) * time.Second
}

// Action builds the shutdown command the configuration names.
func (s *ShutdownConfig) Action() *shutdown.Command {
	return shutdown.NewCommand(s.Command, s.Args...)
}

// SlogLevel maps the configured level to a slog level.
func (l *LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
