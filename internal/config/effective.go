package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s (%s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.HistorySize != nil {
		cfg.HistorySize = *raw.HistorySize
	}
	if raw.EventQueueSize != nil {
		cfg.EventQueueSize = *raw.EventQueueSize
	}
	if raw.InitialDesktop != nil {
		cfg.InitialDesktop = *raw.InitialDesktop
	}
	if raw.DesktopPollInterval != nil {
		cfg.DesktopPollInterval = *raw.DesktopPollInterval
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.MetricsAddr != nil {
		cfg.MetricsAddr = strings.TrimSpace(*raw.MetricsAddr)
	}
	if raw.DesktopHotkeys != nil {
		hotkeys := make(map[string]uint32, len(raw.DesktopHotkeys))
		for keys, desktop := range raw.DesktopHotkeys {
			hotkeys[strings.TrimSpace(keys)] = desktop
		}
		cfg.DesktopHotkeys = hotkeys
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}

	return cfg, nil
}
