package tracker

import (
	"slices"
	"sync"

	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/recency"
)

// Registry maps each desktop to its window history. Histories are created on
// first use and live for the rest of the process.
type Registry struct {
	mu       sync.Mutex
	capacity int
	stacks   map[platform.DesktopID]*recency.Stack[platform.WindowID]
}

// NewRegistry creates an empty registry whose histories hold at most capacity
// windows each.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = recency.DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		stacks:   make(map[platform.DesktopID]*recency.Stack[platform.WindowID]),
	}
}

// Capacity returns the per-desktop history size.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Push records window as the most recent window of desktop.
func (r *Registry) Push(desktop platform.DesktopID, window platform.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stack, ok := r.stacks[desktop]
	if !ok {
		stack = recency.New[platform.WindowID](r.capacity)
		r.stacks[desktop] = stack
	}
	stack.Push(window)
}

// Top returns the most recent window of desktop.
func (r *Registry) Top(desktop platform.DesktopID) (platform.WindowID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stack, ok := r.stacks[desktop]
	if !ok {
		return 0, false
	}
	return stack.Peek()
}

// History returns the windows of desktop, most recent first.
func (r *Registry) History(desktop platform.DesktopID) []platform.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()

	stack, ok := r.stacks[desktop]
	if !ok {
		return nil
	}
	return stack.Items()
}

// Desktops returns every desktop that has a history, in ascending order.
func (r *Registry) Desktops() []platform.DesktopID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]platform.DesktopID, 0, len(r.stacks))
	for desktop := range r.stacks {
		out = append(out, desktop)
	}
	slices.Sort(out)
	return out
}

// Snapshot copies every history.
func (r *Registry) Snapshot() map[platform.DesktopID][]platform.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[platform.DesktopID][]platform.WindowID, len(r.stacks))
	for desktop, stack := range r.stacks {
		out[desktop] = stack.Items()
	}
	return out
}
