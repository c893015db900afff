// Package headless provides an in-memory window toolkit. It never touches a
// display server, which makes it suitable for tests and display-less runs.
package headless

import (
	"errors"
	"sync"

	"github.com/1broseidon/aurenfox/internal/window"
)

// ErrInjected is the default failure returned after FailNext(nil).
var ErrInjected = errors.New("injected surface creation failure")

// Options tunes the toolkit.
type Options struct {
	// CloseAfter requests a close on every surface once the pump has run this
	// many times. Zero disables it.
	CloseAfter int
}

// Toolkit is an in-memory window.Toolkit.
type Toolkit struct {
	mu       sync.Mutex
	opts     Options
	surfaces []*Surface
	pumps    int
	failNext error
}

var _ window.Toolkit = (*Toolkit)(nil)

// New creates a headless toolkit.
func New(opts Options) *Toolkit {
	return &Toolkit{opts: opts}
}

func (t *Toolkit) Name() string { return "headless" }

// FailNext makes the next CreateSurface call fail with err (ErrInjected when
// err is nil).
func (t *Toolkit) FailNext(err error) {
	if err == nil {
		err = ErrInjected
	}
	t.mu.Lock()
	t.failNext = err
	t.mu.Unlock()
}

func (t *Toolkit) CreateSurface(title string, width, height int) (window.Surface, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.failNext; err != nil {
		t.failNext = nil
		return nil, err
	}

	s := &Surface{
		title:  title,
		width:  width,
		height: height,
	}
	t.surfaces = append(t.surfaces, s)
	return s, nil
}

func (t *Toolkit) Pump() {
	t.mu.Lock()
	t.pumps++
	pumps := t.pumps
	surfaces := append([]*Surface(nil), t.surfaces...)
	closeAfter := t.opts.CloseAfter
	t.mu.Unlock()

	if closeAfter > 0 && pumps >= closeAfter {
		for _, s := range surfaces {
			if !s.Destroyed() {
				s.RequestClose()
			}
		}
	}
}

// Pumps returns how many times the event pump ran.
func (t *Toolkit) Pumps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pumps
}

// Surfaces returns every surface ever created, in creation order.
func (t *Toolkit) Surfaces() []*Surface {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Surface(nil), t.surfaces...)
}

// Surface is an in-memory window.Surface. Its scripting methods may be
// called from any goroutine.
type Surface struct {
	mu        sync.Mutex
	title     string
	width     int
	height    int
	pending   []window.Event
	presents  int
	destroyed bool
}

var _ window.Surface = (*Surface)(nil)

// RequestClose queues a close notification, as if the user clicked the
// window's close button.
func (s *Surface) RequestClose() {
	s.mu.Lock()
	s.pending = append(s.pending, window.Event{Type: window.EventClose})
	s.mu.Unlock()
}

// Resize queues a resize notification.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.pending = append(s.pending, window.Event{Type: window.EventResize, Width: width, Height: height})
	s.mu.Unlock()
}

func (s *Surface) Events() []window.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.pending
	s.pending = nil
	return events
}

func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return errors.New("present on destroyed surface")
	}
	s.presents++
	return nil
}

func (s *Surface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.pending = nil
	s.mu.Unlock()
}

// Title returns the title the surface was created with.
func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Presents returns how many frames were presented on the surface.
func (s *Surface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Destroyed reports whether Destroy was called.
func (s *Surface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
