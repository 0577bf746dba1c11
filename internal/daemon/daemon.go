// Package daemon wires the tracker to its event sources and outer surfaces
// and owns their lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskfocus/internal/config"
	"github.com/1broseidon/deskfocus/internal/hotkeys"
	"github.com/1broseidon/deskfocus/internal/ipc"
	"github.com/1broseidon/deskfocus/internal/metrics"
	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/tracker"
	"github.com/hashicorp/go-multierror"
)

// ErrEventLoopExited is returned when the backend event loop stops on its
// own, typically because the display connection was lost.
var ErrEventLoopExited = errors.New("backend event loop exited")

// Run starts the process-wide tracker on backend and serves until ctx is
// done. A foreground hook that cannot be registered is returned as an error
// before anything else starts.
func Run(ctx context.Context, cfg *config.Config, backend platform.Backend, logger *slog.Logger) error {
	initial := platform.DesktopID(cfg.InitialDesktop)
	if desktop, err := backend.CurrentDesktop(); err == nil {
		initial = desktop
	} else if !errors.Is(err, platform.ErrUnsupported) {
		logger.Warn("failed to read current desktop, using initial_desktop", "error", err)
	}

	tr, err := tracker.Init(tracker.Config{
		HistorySize:    cfg.HistorySize,
		QueueSize:      cfg.EventQueueSize,
		InitialDesktop: initial,
		Logger:         logger,
	}, backend)
	if err != nil {
		if cerr := backend.Close(); cerr != nil {
			logger.Warn("failed to close backend", "error", cerr)
		}
		return fmt.Errorf("foreground tracking unavailable: %w", err)
	}
	return Serve(ctx, cfg, backend, tr, logger)
}

// Serve runs the desktop watcher, poller, hotkeys, IPC server and metrics
// endpoint around a started tracker, then the backend event loop. When ctx
// is done everything is stopped in reverse order, the tracker is shut down
// and the backend closed. Errors from every step are combined.
func Serve(ctx context.Context, cfg *config.Config, backend platform.Backend, tr *tracker.Tracker, logger *slog.Logger) (err error) {
	var cleanups []func() error
	defer func() {
		var result *multierror.Error
		if err != nil {
			result = multierror.Append(result, err)
		}
		for i := len(cleanups) - 1; i >= 0; i-- {
			if cerr := cleanups[i](); cerr != nil {
				result = multierror.Append(result, cerr)
			}
		}
		err = result.ErrorOrNil()
	}()
	cleanups = append(cleanups, backend.Close, tr.Shutdown)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watcher, ok := backend.(platform.DesktopWatcher); ok {
		sub, werr := tr.WatchDesktops(watcher)
		if werr != nil {
			logger.Warn("desktop watcher unavailable", "error", werr)
		} else {
			cleanups = append(cleanups, sub.Release)
		}
	}

	if cfg.DesktopPollInterval > 0 {
		if _, perr := backend.CurrentDesktop(); errors.Is(perr, platform.ErrUnsupported) {
			logger.Info("desktop polling disabled, backend cannot report desktops")
		} else {
			poller := NewPoller(PollerConfig{
				Interval: cfg.DesktopPollInterval,
				Logger:   logger,
			}, backend.CurrentDesktop, tr)
			go poller.Run(runCtx)
		}
	}

	if bindings := cfg.GetDesktopHotkeys(); len(bindings) > 0 {
		handler := hotkeys.NewHandler(backend, tr)
		if herr := handler.RegisterDesktops(bindings); herr != nil {
			logger.Warn("some desktop hotkeys were not registered", "error", herr)
		}
	}

	server, err := ipc.NewServer(tr, backend)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	cleanups = append(cleanups, server.Stop)

	if cfg.MetricsAddr != "" {
		ms := metrics.NewServer(cfg.MetricsAddr, metrics.NewRegistry(tr))
		if err := ms.Start(); err != nil {
			return err
		}
		cleanups = append(cleanups, func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return ms.Shutdown(shutdownCtx)
		})
		logger.Info("metrics endpoint listening", "addr", ms.Addr())
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		backend.EventLoop()
	}()

	logger.Info("deskfocus daemon running",
		"desktop", tr.CurrentDesktop(),
		"history_size", cfg.HistorySize,
		"socket", server.SocketPath())

	select {
	case <-ctx.Done():
		logger.Info("deskfocus daemon stopping")
		return nil
	case <-loopDone:
		return ErrEventLoopExited
	}
}
