package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
)

// DesktopSource returns the desktop the window manager is showing.
type DesktopSource func() (platform.DesktopID, error)

// DesktopObserver is the tracker surface the poller feeds.
type DesktopObserver interface {
	DesktopVersion() uint64
	ObserveDesktop(desktop platform.DesktopID, since uint64)
}

// PollerConfig holds configuration for the desktop poller.
type PollerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller periodically reads the current desktop and reports it to the
// tracker. It covers window managers that switch desktops without announcing
// it. A sample that a newer switch overtook is discarded by the tracker.
type Poller struct {
	interval time.Duration
	current  DesktopSource
	observer DesktopObserver
	logger   *slog.Logger
}

// NewPoller creates a new poller with the given configuration.
func NewPoller(cfg PollerConfig, current DesktopSource, observer DesktopObserver) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}

	return &Poller{
		interval: interval,
		current:  current,
		observer: observer,
		logger:   cfg.Logger,
	}
}

// Run starts the polling loop. Blocks until context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("desktop poller started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("desktop poller stopped")
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll performs a single pass.
func (p *Poller) poll() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("desktop poller panic recovered", "error", err)
		}
	}()

	since := p.observer.DesktopVersion()
	desktop, err := p.current()
	if err != nil {
		p.logger.Warn("desktop poller: failed to read current desktop", "error", err)
		return
	}
	p.observer.ObserveDesktop(desktop, since)
}

// PollNow triggers an immediate pass.
func (p *Poller) PollNow() {
	p.poll()
}
