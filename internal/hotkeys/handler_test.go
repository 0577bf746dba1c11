package hotkeys

import (
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/deskfocus/internal/config"
	"github.com/1broseidon/deskfocus/internal/platform"
)

type recordingSwitcher struct {
	switched []platform.DesktopID
}

func (s *recordingSwitcher) SwitchDesktop(desktop platform.DesktopID) (platform.WindowID, bool) {
	s.switched = append(s.switched, desktop)
	return 0, false
}

type recordingRequester struct {
	requested []platform.DesktopID
	err       error
}

func (r *recordingRequester) RequestDesktop(desktop platform.DesktopID) error {
	r.requested = append(r.requested, desktop)
	return r.err
}

func TestSwitchToRequestsThenSwitches(t *testing.T) {
	sw := &recordingSwitcher{}
	req := &recordingRequester{}
	h := &Handler{switcher: sw, desktops: req}

	h.SwitchTo(2)

	if len(req.requested) != 1 || req.requested[0] != 2 {
		t.Fatalf("requested = %v, want [2]", req.requested)
	}
	if len(sw.switched) != 1 || sw.switched[0] != 2 {
		t.Fatalf("switched = %v, want [2]", sw.switched)
	}
}

func TestSwitchToSwitchesWhenRequestFails(t *testing.T) {
	sw := &recordingSwitcher{}
	h := &Handler{switcher: sw, desktops: &recordingRequester{err: errors.New("wm says no")}}

	h.SwitchTo(1)

	if len(sw.switched) != 1 || sw.switched[0] != 1 {
		t.Fatalf("switched = %v, want [1]", sw.switched)
	}
}

func TestRegisterWithoutX11(t *testing.T) {
	h := &Handler{switcher: &recordingSwitcher{}}

	if err := h.RegisterFunc("Mod4-1", func() {}); !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("RegisterFunc() = %v, want ErrUnsupported", err)
	}

	err := h.RegisterDesktops([]config.DesktopHotkey{
		{Keys: "Mod4-1", Desktop: 0},
		{Keys: "Mod4-2", Desktop: 1},
	})
	if err == nil {
		t.Fatal("expected RegisterDesktops to fail without X11")
	}
	if !strings.Contains(err.Error(), `"Mod4-1"`) || !strings.Contains(err.Error(), `"Mod4-2"`) {
		t.Fatalf("expected both bindings in error, got %v", err)
	}
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("expected wrapped ErrUnsupported, got %v", err)
	}
}

func TestRegisterDesktopsEmpty(t *testing.T) {
	h := &Handler{switcher: &recordingSwitcher{}}
	if err := h.RegisterDesktops(nil); err != nil {
		t.Fatalf("RegisterDesktops(nil) = %v, want nil", err)
	}
}
