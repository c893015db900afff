package window_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/aurenfox/internal/platform/headless"
	"github.com/1broseidon/aurenfox/internal/window"
)

func newRegistry() (*window.Registry, *headless.Toolkit) {
	tk := headless.New(headless.Options{})
	return window.NewRegistry(tk, nil), tk
}

func mustCreate(t *testing.T, r *window.Registry, title string, id *window.ID) window.ID {
	t.Helper()
	got, err := r.Create(window.Config{Title: title, Width: 640, Height: 480, ID: id})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return got
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		live []window.ID
		want window.ID
	}{
		{"empty", nil, 0},
		{"dense", []window.ID{0, 1, 2}, 3},
		{"gap in middle", []window.ID{0, 2}, 1},
		{"gap at start", []window.ID{1, 2}, 0},
		{"unsorted", []window.ID{3, 0, 1}, 2},
		{"sparse high ids", []window.ID{5, 9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.NextID(tt.live); got != tt.want {
				t.Fatalf("NextID(%v) = %d, want %d", tt.live, got, tt.want)
			}
		})
	}
}

func TestNextID_DoesNotReorderInput(t *testing.T) {
	live := []window.ID{3, 0, 1}
	window.NextID(live)
	if diff := cmp.Diff([]window.ID{3, 0, 1}, live); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestRegistry_GapFillingAssignment(t *testing.T) {
	r, _ := newRegistry()

	a := mustCreate(t, r, "A", nil)
	b := mustCreate(t, r, "B", nil)
	c := mustCreate(t, r, "C", nil)
	if diff := cmp.Diff([]window.ID{0, 1, 2}, []window.ID{a, b, c}); diff != "" {
		t.Fatalf("initial ids (-want +got):\n%s", diff)
	}

	r.Destroy(b)
	d := mustCreate(t, r, "D", nil)
	if d != 1 {
		t.Fatalf("expected D to fill gap 1, got %d", d)
	}

	e := mustCreate(t, r, "E", nil)
	if e != 3 {
		t.Fatalf("expected E to append at 3, got %d", e)
	}
}

func TestRegistry_ExplicitID(t *testing.T) {
	r, _ := newRegistry()

	got := mustCreate(t, r, "explicit", window.WithID(7))
	if got != 7 {
		t.Fatalf("expected id 7, got %d", got)
	}
	if next := mustCreate(t, r, "auto", nil); next != 0 {
		t.Fatalf("expected auto id 0 below explicit 7, got %d", next)
	}
}

func TestRegistry_DuplicateIDLeavesRegistryUnchanged(t *testing.T) {
	r, tk := newRegistry()
	mustCreate(t, r, "first", window.WithID(0))
	mustCreate(t, r, "second", window.WithID(1))
	before := r.Infos()

	_, err := r.Create(window.Config{Title: "dup", Width: 1, Height: 1, ID: window.WithID(1)})
	if !errors.Is(err, window.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
	if diff := cmp.Diff(before, r.Infos()); diff != "" {
		t.Fatalf("registry changed (-want +got):\n%s", diff)
	}
	if n := len(tk.Surfaces()); n != 2 {
		t.Fatalf("expected no surface allocated for rejected id, got %d surfaces", n)
	}
}

func TestRegistry_NegativeExplicitID(t *testing.T) {
	r, _ := newRegistry()
	_, err := r.Create(window.Config{Title: "neg", ID: window.WithID(-1)})
	if !errors.Is(err, window.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Count())
	}
}

func TestRegistry_BackendFailureLeavesRegistryUnchanged(t *testing.T) {
	r, tk := newRegistry()
	mustCreate(t, r, "ok", nil)

	tk.FailNext(nil)
	_, err := r.Create(window.Config{Title: "broken", Width: 10, Height: 10})
	if !errors.Is(err, window.ErrBackendCreationFailed) {
		t.Fatalf("expected ErrBackendCreationFailed, got %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1 after failure, got %d", r.Count())
	}

	// The failed request must not have consumed id 1.
	if id := mustCreate(t, r, "retry", nil); id != 1 {
		t.Fatalf("expected retry to get id 1, got %d", id)
	}
}

func TestRegistry_DestroyUnknownIsNoop(t *testing.T) {
	r, _ := newRegistry()
	mustCreate(t, r, "only", nil)

	r.Destroy(42)
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}
	r.Destroy(0)
	r.Destroy(0)
	if r.Count() != 0 {
		t.Fatalf("expected count 0, got %d", r.Count())
	}
}

func TestRegistry_DestroyReleasesSurface(t *testing.T) {
	r, tk := newRegistry()
	id := mustCreate(t, r, "w", nil)
	r.Destroy(id)

	if !tk.Surfaces()[0].Destroyed() {
		t.Fatalf("expected surface to be destroyed")
	}
	if r.Exists(id) {
		t.Fatalf("expected id %d to be gone", id)
	}
}

func TestRegistry_PollAppliesResize(t *testing.T) {
	r, tk := newRegistry()
	id := mustCreate(t, r, "w", nil)

	tk.Surfaces()[0].Resize(1024, 768)
	r.Poll()

	w, ok := r.Lookup(id)
	if !ok {
		t.Fatalf("window %d missing", id)
	}
	if w.Width != 1024 || w.Height != 768 {
		t.Fatalf("expected 1024x768, got %dx%d", w.Width, w.Height)
	}
	if tk.Pumps() != 1 {
		t.Fatalf("expected one pump, got %d", tk.Pumps())
	}
}

func TestRegistry_CloseIsDeferredUntilReap(t *testing.T) {
	r, tk := newRegistry()
	keep := mustCreate(t, r, "keep", nil)
	closing := mustCreate(t, r, "closing", nil)

	tk.Surfaces()[1].RequestClose()
	r.Poll()

	w, ok := r.Lookup(closing)
	if !ok {
		t.Fatalf("closing window removed before reap")
	}
	if !w.Closing() {
		t.Fatalf("expected window to be marked closing")
	}
	// Still live, so its id is not reused yet.
	if id := window.NextID(r.IDs()); id != 2 {
		t.Fatalf("expected next id 2 while window is closing, got %d", id)
	}

	reaped := r.ReapClosed()
	if diff := cmp.Diff([]window.ID{closing}, reaped); diff != "" {
		t.Fatalf("reaped (-want +got):\n%s", diff)
	}
	if r.Exists(closing) || !r.Exists(keep) {
		t.Fatalf("unexpected live set after reap: %v", r.IDs())
	}
	if !tk.Surfaces()[1].Destroyed() {
		t.Fatalf("expected reaped surface to be destroyed")
	}
}

type recordingObserver struct {
	created []window.ID
	removed []string
}

func (o *recordingObserver) WindowCreated(info window.Info) {
	o.created = append(o.created, info.ID)
}

func (o *recordingObserver) WindowRemoved(info window.Info, reason window.RemoveReason) {
	o.removed = append(o.removed, info.Title+":"+string(reason))
}

func TestRegistry_Observer(t *testing.T) {
	r, tk := newRegistry()
	obs := &recordingObserver{}
	r.SetObserver(obs)

	mustCreate(t, r, "a", nil)
	b := mustCreate(t, r, "b", nil)
	r.Destroy(b)
	tk.Surfaces()[0].RequestClose()
	r.Poll()
	r.ReapClosed()

	if diff := cmp.Diff([]window.ID{0, 1}, obs.created); diff != "" {
		t.Fatalf("created (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b:destroyed", "a:closed"}, obs.removed); diff != "" {
		t.Fatalf("removed (-want +got):\n%s", diff)
	}
}
