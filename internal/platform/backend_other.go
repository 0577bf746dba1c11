//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// NewBackend reports that no window-system backend exists for this OS.
func NewBackend(Options) (Backend, error) {
	return nil, fmt.Errorf("%s: %w", runtime.GOOS, ErrUnsupported)
}
