package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths:
//
//	history_size
//	event_queue_size
//	initial_desktop
//	desktop_poll_interval
//	log_level
//	metrics_addr
//	display
//	desktop_hotkeys
//	desktop_hotkeys.<keys>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// A single hotkey inherits the source of the map that defined it.
	if strings.HasPrefix(path, "desktop_hotkeys.") {
		if src, ok := res.Sources["desktop_hotkeys"]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "history_size":
		return cfg.HistorySize, nil
	case "event_queue_size":
		return cfg.EventQueueSize, nil
	case "initial_desktop":
		return cfg.InitialDesktop, nil
	case "desktop_poll_interval":
		return cfg.DesktopPollInterval.String(), nil
	case "log_level":
		return cfg.LogLevel, nil
	case "metrics_addr":
		return cfg.MetricsAddr, nil
	case "display":
		return cfg.Display, nil
	case "desktop_hotkeys":
		return cfg.DesktopHotkeys, nil
	}

	if keys, ok := strings.CutPrefix(path, "desktop_hotkeys."); ok {
		desktop, found := cfg.DesktopHotkeys[keys]
		if !found {
			return nil, fmt.Errorf("no hotkey %q in desktop_hotkeys", keys)
		}
		return desktop, nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
