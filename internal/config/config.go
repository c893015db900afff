package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by the backend key.
const (
	BackendX11      = "x11"
	BackendHeadless = "headless"
)

const (
	DefaultWindowTitle  = "aurenfox"
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
	DefaultMaxFPS       = 60
)

// WindowSpec describes a window the host opens at startup.
type WindowSpec struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width,omitempty"`  // 0 = DefaultWindowWidth
	Height int    `yaml:"height,omitempty"` // 0 = DefaultWindowHeight
	// ID pins the window id; omit for gap-filling assignment.
	ID *int `yaml:"id,omitempty"`
	// Master marks the window whose disappearance ends the run.
	Master bool `yaml:"master,omitempty"`
}

// HeadlessConfig tunes the in-memory backend.
type HeadlessConfig struct {
	// CloseAfterFrames requests a close on every window after this many
	// frames. 0 disables it.
	CloseAfterFrames int `yaml:"close_after_frames,omitempty"`
}

// JournalConfig configures the window lifecycle journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// File is the journal path (default: ~/.local/share/aurenfox/lifecycle.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum journal size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// LoggingConfig configures runtime logging.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level   string        `yaml:"level,omitempty"`
	Journal JournalConfig `yaml:"journal,omitempty"`
}

// IPCConfig configures the control socket.
type IPCConfig struct {
	// Enabled defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// GetEnabled returns the effective value, defaulting to true.
func (c IPCConfig) GetEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// Config is the effective host configuration.
type Config struct {
	Backend  string         `yaml:"backend"`
	MaxFPS   int            `yaml:"max_fps"`
	Windows  []WindowSpec   `yaml:"windows"`
	Headless HeadlessConfig `yaml:"headless,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	IPC      IPCConfig      `yaml:"ipc,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists: one
// master window on the X11 backend.
func DefaultConfig() *Config {
	id := 0
	return &Config{
		Backend: BackendX11,
		MaxFPS:  DefaultMaxFPS,
		Windows: []WindowSpec{
			{
				Title:  DefaultWindowTitle,
				Width:  DefaultWindowWidth,
				Height: DefaultWindowHeight,
				ID:     &id,
				Master: true,
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// applyDefaults fills zero values that have a documented default.
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = BackendX11
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	for i := range c.Windows {
		w := &c.Windows[i]
		if w.Width == 0 {
			w.Width = DefaultWindowWidth
		}
		if w.Height == 0 {
			w.Height = DefaultWindowHeight
		}
		if w.Title == "" {
			w.Title = DefaultWindowTitle
		}
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendX11, BackendHeadless:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: %s, %s", BackendX11, BackendHeadless)}
	}
	if c.MaxFPS < 0 {
		return &ValidationError{Path: "max_fps", Err: fmt.Errorf("max_fps must be >= 0")}
	}
	if _, ok := parseLevel(c.Logging.Level); !ok {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Headless.CloseAfterFrames < 0 {
		return &ValidationError{Path: "headless.close_after_frames", Err: fmt.Errorf("close_after_frames must be >= 0")}
	}
	j := c.Logging.Journal
	if j.MaxSizeMB < 0 || j.MaxFiles < 0 {
		return &ValidationError{Path: "logging.journal", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}

	ids := make(map[int]int)
	master := -1
	for i, w := range c.Windows {
		path := fmt.Sprintf("windows[%d]", i)
		if w.Width <= 0 || w.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
		}
		if w.ID != nil {
			if *w.ID < 0 {
				return &ValidationError{Path: path + ".id", Err: fmt.Errorf("id must be >= 0")}
			}
			if prev, ok := ids[*w.ID]; ok {
				return &ValidationError{Path: path + ".id", Err: fmt.Errorf("id %d already used by windows[%d]", *w.ID, prev)}
			}
			ids[*w.ID] = i
		}
		if w.Master {
			if master >= 0 {
				return &ValidationError{Path: path + ".master", Err: fmt.Errorf("windows[%d] is already the master", master)}
			}
			master = i
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Logging.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// GetJournalConfig returns the journal configuration with defaults applied.
func (c *Config) GetJournalConfig() JournalConfig {
	if c == nil {
		return JournalConfig{}
	}
	cfg := c.Logging.Journal
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/aurenfox/lifecycle.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// MasterIndex returns the index of the master window spec, or -1.
func (c *Config) MasterIndex() int {
	for i, w := range c.Windows {
		if w.Master {
			return i
		}
	}
	return -1
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
