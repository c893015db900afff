package platform

import (
	"testing"

	"github.com/1broseidon/aurenfox/internal/platform/headless"
	"github.com/1broseidon/aurenfox/internal/window"
)

func newTestAgent(t *testing.T) (*Agent, *headless.Toolkit) {
	t.Helper()
	tk := headless.New(headless.Options{})
	return NewAgent(tk, nil), tk
}

func TestAgent_StartFrameWithNoWindowsTerminates(t *testing.T) {
	a, tk := newTestAgent(t)

	a.StartFrame()
	if !a.ShouldClose() {
		t.Fatalf("expected termination with zero windows")
	}
	if tk.Pumps() != 0 {
		t.Fatalf("expected no event pump once terminating, got %d", tk.Pumps())
	}
}

func TestAgent_MasterMissingTerminates(t *testing.T) {
	a, _ := newTestAgent(t)
	if _, err := a.CreateWindow(window.Config{Title: "main", ID: window.WithID(0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.CreateWindow(window.Config{Title: "other", ID: window.WithID(1)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	a.AssignMaster(0)

	a.StartFrame()
	if a.ShouldClose() {
		t.Fatalf("unexpected termination while master is live")
	}

	a.DestroyWindow(0)
	a.StartFrame()
	if !a.ShouldClose() {
		t.Fatalf("expected termination after master destroyed")
	}
}

func TestAgent_MasterNeverCreatedTerminates(t *testing.T) {
	a, _ := newTestAgent(t)
	if _, err := a.CreateWindow(window.Config{Title: "w"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	a.AssignMaster(5)

	a.StartFrame()
	if !a.ShouldClose() {
		t.Fatalf("expected termination for unknown master id")
	}
}

func TestAgent_NonMasterRemovalKeepsRunning(t *testing.T) {
	a, tk := newTestAgent(t)
	for i := 0; i < 2; i++ {
		if _, err := a.CreateWindow(window.Config{Title: "w"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	a.AssignMaster(0)

	tk.Surfaces()[1].RequestClose()
	a.StartFrame() // polls the close request
	a.StartFrame() // reaps it
	if a.ShouldClose() {
		t.Fatalf("closing a non-master window must not terminate")
	}
	if a.Registry().Exists(1) {
		t.Fatalf("expected window 1 to be reaped")
	}
}

func TestAgent_EndFramePresentsUntilTerminating(t *testing.T) {
	a, tk := newTestAgent(t)
	if _, err := a.CreateWindow(window.Config{Title: "w"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	a.StartFrame()
	a.EndFrame()
	s := tk.Surfaces()[0]
	if s.Presents() != 1 {
		t.Fatalf("expected 1 present, got %d", s.Presents())
	}

	a.DestroyWindow(0)
	a.StartFrame()
	a.EndFrame()
	if !a.ShouldClose() {
		t.Fatalf("expected termination")
	}
	if s.Presents() != 1 {
		t.Fatalf("expected no present after termination, got %d", s.Presents())
	}
}

func TestAgent_DestroyWindowIdempotent(t *testing.T) {
	a, _ := newTestAgent(t)
	if _, err := a.CreateWindow(window.Config{Title: "w"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	a.DestroyWindow(0)
	a.DestroyWindow(0)
	a.DestroyWindow(9)
	if n := a.Registry().Count(); n != 0 {
		t.Fatalf("expected empty registry, got %d", n)
	}
}

func TestAgent_InspectorReportsMasterAndWindows(t *testing.T) {
	a, _ := newTestAgent(t)
	if _, ok := a.Master(); ok {
		t.Fatalf("expected no master before assignment")
	}
	if _, err := a.CreateWindow(window.Config{Title: "b", ID: window.WithID(3)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.CreateWindow(window.Config{Title: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	a.AssignMaster(3)

	m, ok := a.Master()
	if !ok || m != 3 {
		t.Fatalf("expected master 3, got %d (%v)", m, ok)
	}
	infos := a.Windows()
	if len(infos) != 2 || infos[0].ID != 0 || infos[1].ID != 3 {
		t.Fatalf("expected windows sorted by id, got %+v", infos)
	}
}
