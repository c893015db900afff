package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// PointerMonitor returns the monitor under the mouse cursor, falling back to
// the first monitor. ok is false when RandR reports nothing usable.
func (c *Connection) PointerMonitor() (Monitor, bool) {
	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) == 0 {
		return Monitor{}, false
	}

	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err == nil {
		x, y := int(pointer.RootX), int(pointer.RootY)
		for _, mon := range monitors {
			if mon.contains(x, y) {
				return mon, true
			}
		}
	}
	return monitors[0], true
}

// CenterIn returns the top-left corner that centers a width×height window on
// mon, clamped so the corner stays on the monitor.
func CenterIn(mon Monitor, width, height int) (int, int) {
	x := mon.X + (mon.Width-width)/2
	y := mon.Y + (mon.Height-height)/2
	if x < mon.X {
		x = mon.X
	}
	if y < mon.Y {
		y = mon.Y
	}
	return x, y
}
