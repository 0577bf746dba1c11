package config

import "time"

// RawConfig mirrors the YAML file. Pointer fields distinguish "unset" from a
// zero value so defaults only apply to keys the file leaves out.
type RawConfig struct {
	HistorySize         *int              `yaml:"history_size"`
	EventQueueSize      *int              `yaml:"event_queue_size"`
	InitialDesktop      *uint32           `yaml:"initial_desktop"`
	DesktopPollInterval *time.Duration    `yaml:"desktop_poll_interval"`
	LogLevel            *string           `yaml:"log_level"`
	MetricsAddr         *string           `yaml:"metrics_addr"`
	DesktopHotkeys      map[string]uint32 `yaml:"desktop_hotkeys"`
	Display             *string           `yaml:"display"`
}

// EnvConfig holds DESKFOCUS_* environment overrides, processed by envconfig.
// Field names map to variables through split_words, e.g. HistorySize is
// DESKFOCUS_HISTORY_SIZE.
type EnvConfig struct {
	HistorySize         *int           `split_words:"true"`
	EventQueueSize      *int           `split_words:"true"`
	InitialDesktop      *uint32        `split_words:"true"`
	DesktopPollInterval *time.Duration `split_words:"true"`
	LogLevel            *string        `split_words:"true"`
	MetricsAddr         *string        `split_words:"true"`
	Display             *string        `split_words:"true"`
}

// raw converts env overrides into a RawConfig overlay.
func (e EnvConfig) raw() RawConfig {
	return RawConfig{
		HistorySize:         e.HistorySize,
		EventQueueSize:      e.EventQueueSize,
		InitialDesktop:      e.InitialDesktop,
		DesktopPollInterval: e.DesktopPollInterval,
		LogLevel:            e.LogLevel,
		MetricsAddr:         e.MetricsAddr,
		Display:             e.Display,
	}
}

// keys lists the YAML paths set by the overlay.
func (c RawConfig) keys() []string {
	var out []string
	if c.HistorySize != nil {
		out = append(out, "history_size")
	}
	if c.EventQueueSize != nil {
		out = append(out, "event_queue_size")
	}
	if c.InitialDesktop != nil {
		out = append(out, "initial_desktop")
	}
	if c.DesktopPollInterval != nil {
		out = append(out, "desktop_poll_interval")
	}
	if c.LogLevel != nil {
		out = append(out, "log_level")
	}
	if c.MetricsAddr != nil {
		out = append(out, "metrics_addr")
	}
	if c.DesktopHotkeys != nil {
		out = append(out, "desktop_hotkeys")
	}
	if c.Display != nil {
		out = append(out, "display")
	}
	return out
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	if overlay.HistorySize != nil {
		out.HistorySize = overlay.HistorySize
	}
	if overlay.EventQueueSize != nil {
		out.EventQueueSize = overlay.EventQueueSize
	}
	if overlay.InitialDesktop != nil {
		out.InitialDesktop = overlay.InitialDesktop
	}
	if overlay.DesktopPollInterval != nil {
		out.DesktopPollInterval = overlay.DesktopPollInterval
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.MetricsAddr != nil {
		out.MetricsAddr = overlay.MetricsAddr
	}
	if overlay.DesktopHotkeys != nil {
		out.DesktopHotkeys = overlay.DesktopHotkeys
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	return out
}
