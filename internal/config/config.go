package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHistorySize    = 4
	DefaultEventQueueSize = 64
	DefaultLogLevel       = "info"

	maxHistorySize    = 64
	maxEventQueueSize = 4096
	minPollInterval   = 50 * time.Millisecond
)

// Config is the effective deskfocus configuration.
type Config struct {
	// HistorySize is the number of distinct windows remembered per desktop.
	HistorySize int `yaml:"history_size"`
	// EventQueueSize bounds the foreground events buffered between the OS
	// hook and the tracker. Events beyond it are dropped.
	EventQueueSize int `yaml:"event_queue_size"`
	// InitialDesktop is the desktop events are attributed to until the first
	// switch, when the backend cannot report the current desktop.
	InitialDesktop uint32 `yaml:"initial_desktop"`
	// DesktopPollInterval enables polling the current desktop for window
	// managers that do not announce desktop changes. 0 disables polling.
	DesktopPollInterval time.Duration `yaml:"desktop_poll_interval"`
	LogLevel            string        `yaml:"log_level"`
	// MetricsAddr is the listen address of the Prometheus endpoint. Empty
	// disables it.
	MetricsAddr string `yaml:"metrics_addr"`
	// DesktopHotkeys maps key sequences (e.g. "Mod4-1") to desktop indexes.
	DesktopHotkeys map[string]uint32 `yaml:"desktop_hotkeys"`
	// Display overrides the X11 DISPLAY.
	Display string `yaml:"display"`
}

// DesktopHotkey is one key binding from DesktopHotkeys.
type DesktopHotkey struct {
	Keys    string
	Desktop uint32
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HistorySize:    DefaultHistorySize,
		EventQueueSize: DefaultEventQueueSize,
		LogLevel:       DefaultLogLevel,
		DesktopHotkeys: map[string]uint32{},
	}
}

// GetDesktopHotkeys returns the hotkey bindings ordered by desktop, then key
// sequence.
func (c *Config) GetDesktopHotkeys() []DesktopHotkey {
	if c == nil {
		return nil
	}
	out := make([]DesktopHotkey, 0, len(c.DesktopHotkeys))
	for keys, desktop := range c.DesktopHotkeys {
		out = append(out, DesktopHotkey{Keys: keys, Desktop: desktop})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Desktop != out[j].Desktop {
			return out[i].Desktop < out[j].Desktop
		}
		return out[i].Keys < out[j].Keys
	})
	return out
}

// SlogLevel converts LogLevel for log/slog.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel accepts debug, info, warning (or warn) and error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if c.HistorySize < 1 || c.HistorySize > maxHistorySize {
		return &ValidationError{Path: "history_size", Err: fmt.Errorf("history_size must be between 1 and %d", maxHistorySize)}
	}
	if c.EventQueueSize < 1 || c.EventQueueSize > maxEventQueueSize {
		return &ValidationError{Path: "event_queue_size", Err: fmt.Errorf("event_queue_size must be between 1 and %d", maxEventQueueSize)}
	}
	if c.DesktopPollInterval < 0 {
		return &ValidationError{Path: "desktop_poll_interval", Err: fmt.Errorf("desktop_poll_interval must be >= 0")}
	}
	if c.DesktopPollInterval > 0 && c.DesktopPollInterval < minPollInterval {
		return &ValidationError{Path: "desktop_poll_interval", Err: fmt.Errorf("desktop_poll_interval must be 0 or at least %s", minPollInterval)}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.DesktopHotkeys == nil {
		return &ValidationError{Path: "desktop_hotkeys", Err: fmt.Errorf("desktop_hotkeys must not be null")}
	}
	for keys := range c.DesktopHotkeys {
		if strings.TrimSpace(keys) == "" {
			return &ValidationError{Path: "desktop_hotkeys", Err: fmt.Errorf("desktop_hotkeys contains an empty key sequence")}
		}
	}
	return nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and does not preserve comments.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
