package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/aurenfox/internal/window"
)

// DefaultBackground is the fill color presented on every frame.
const DefaultBackground = 0x1f2933

// Toolkit creates top-level X11 windows and translates their events.
type Toolkit struct {
	conn       *Connection
	logger     *slog.Logger
	background uint32
	surfaces   map[xproto.Window]*Surface
}

var _ window.Toolkit = (*Toolkit)(nil)

// NewToolkit creates a toolkit on an open connection.
func NewToolkit(conn *Connection, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{
		conn:       conn,
		logger:     logger,
		background: DefaultBackground,
		surfaces:   make(map[xproto.Window]*Surface),
	}
}

func (t *Toolkit) Name() string { return "x11" }

func (t *Toolkit) CreateSurface(title string, width, height int) (window.Surface, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	xu := t.conn.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	x, y := 0, 0
	if mon, ok := t.conn.PointerMonitor(); ok {
		x, y = CenterIn(mon, width, height)
	}

	// Value list order follows the bit positions of the mask: CwBackPixel
	// comes before CwEventMask.
	err = win.CreateChecked(t.conn.Root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		t.background, xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := icccm.WmProtocolsSet(xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	if err := icccm.WmNameSet(xu, win.Id, title); err != nil {
		t.logger.Warn("failed to set WM_NAME", "window", win.Id, "error", err)
	}
	if err := ewmh.WmNameSet(xu, win.Id, title); err != nil {
		t.logger.Debug("failed to set _NET_WM_NAME", "window", win.Id, "error", err)
	}

	win.Map()

	s := &Surface{toolkit: t, win: win, width: width, height: height}
	t.surfaces[win.Id] = s
	return s, nil
}

// Pump reads whatever the server has sent without blocking and routes it to
// the owning surfaces.
func (t *Toolkit) Pump() {
	xu := t.conn.XUtil
	xevent.Read(xu, false)

	for !xevent.Empty(xu) {
		ev, xerr := xevent.Dequeue(xu)
		if xerr != nil {
			t.logger.Debug("x11 error", "error", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			if s, ok := t.surfaces[e.Window]; ok {
				s.resized(int(e.Width), int(e.Height))
			}
		case xproto.ClientMessageEvent:
			if s, ok := t.surfaces[e.Window]; ok && t.conn.isDeleteRequest(e) {
				s.push(window.Event{Type: window.EventClose})
			}
		case xproto.DestroyNotifyEvent:
			// Destroyed out from under us (e.g. xkill).
			if s, ok := t.surfaces[e.Window]; ok {
				s.push(window.Event{Type: window.EventClose})
			}
		}
	}
}

// Surface is one top-level X11 window.
type Surface struct {
	toolkit *Toolkit
	win     *xwindow.Window
	width   int
	height  int
	pending []window.Event
	gone    bool
}

var _ window.Surface = (*Surface)(nil)

// ID returns the X window id.
func (s *Surface) ID() xproto.Window {
	return s.win.Id
}

func (s *Surface) push(ev window.Event) {
	s.pending = append(s.pending, ev)
}

// resized only queues an event when the size actually changed; moves also
// produce ConfigureNotify.
func (s *Surface) resized(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.push(window.Event{Type: window.EventResize, Width: width, Height: height})
}

func (s *Surface) Events() []window.Event {
	events := s.pending
	s.pending = nil
	return events
}

func (s *Surface) Present() error {
	if s.gone {
		return fmt.Errorf("window %d already destroyed", s.win.Id)
	}
	conn := s.toolkit.conn.XUtil.Conn()
	if err := xproto.ClearAreaChecked(conn, false, s.win.Id, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to present window %d: %w", s.win.Id, err)
	}
	return nil
}

func (s *Surface) Destroy() {
	if s.gone {
		return
	}
	s.gone = true
	delete(s.toolkit.surfaces, s.win.Id)
	s.win.Destroy()
}
