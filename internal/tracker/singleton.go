package tracker

import (
	"sync"
	"sync/atomic"

	"github.com/1broseidon/deskfocus/internal/platform"
)

// Backend is what the process-wide tracker needs from the platform layer.
type Backend interface {
	platform.ForegroundHook
	platform.Activator
}

var (
	defaultOnce    sync.Once
	defaultErr     error
	defaultTracker atomic.Pointer[Tracker]
)

// Init creates and starts the process-wide tracker. Only the first call
// registers a hook; every call returns the first call's tracker or error.
func Init(cfg Config, backend Backend) (*Tracker, error) {
	defaultOnce.Do(func() {
		t := New(cfg, backend)
		if err := t.Start(backend); err != nil {
			defaultErr = err
			return
		}
		defaultTracker.Store(t)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultTracker.Load(), nil
}

// Default returns the process-wide tracker, or nil before a successful Init.
func Default() *Tracker {
	return defaultTracker.Load()
}
