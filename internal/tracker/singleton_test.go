package tracker

import (
	"testing"

	"github.com/1broseidon/deskfocus/internal/platform"
)

type fakeBackend struct {
	fakeHook
	fakeActivator
}

var _ Backend = (*fakeBackend)(nil)

func TestInitCreatesSingleTracker(t *testing.T) {
	backend := &fakeBackend{}

	first, err := Init(Config{InitialDesktop: 1}, backend)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { first.Shutdown() })

	second, err := Init(Config{InitialDesktop: 5}, &fakeBackend{})
	if err != nil {
		t.Fatalf("second Init() error: %v", err)
	}
	if first != second || Default() != first {
		t.Fatal("Init and Default should return the same tracker")
	}
	if got := backend.Subscriptions(); got != 1 {
		t.Fatalf("subscriptions = %d, want 1", got)
	}
	if got := first.CurrentDesktop(); got != platform.DesktopID(1) {
		t.Fatalf("CurrentDesktop() = %d, want 1", got)
	}
}
