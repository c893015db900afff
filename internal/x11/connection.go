package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and the atoms the toolkit needs.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom
}

// NewConnection connects to the X server named by $DISPLAY. Failure here is
// fatal for the host; there is nothing to fall back to.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if c.wmProtocols, err = c.internAtom("WM_PROTOCOLS"); err != nil {
		c.Close()
		return nil, err
	}
	if c.wmDeleteWindow, err = c.internAtom("WM_DELETE_WINDOW"); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// isDeleteRequest reports whether a client message is the window manager
// asking a window to close.
func (c *Connection) isDeleteRequest(ev xproto.ClientMessageEvent) bool {
	return ev.Type == c.wmProtocols &&
		ev.Format == 32 &&
		xproto.Atom(ev.Data.Data32[0]) == c.wmDeleteWindow
}
