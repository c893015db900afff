//go:build !linux

package platform

import (
	"errors"
	"log/slog"
)

// X11Agent is unavailable off Linux.
type X11Agent struct {
	*Agent
}

// NewX11Agent always fails on this platform.
func NewX11Agent(_ *slog.Logger) (*X11Agent, error) {
	return nil, errors.New("x11 backend is only supported on linux")
}

// Disconnect is a no-op.
func (b *X11Agent) Disconnect() {}
