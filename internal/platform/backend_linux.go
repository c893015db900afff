//go:build linux

package platform

import (
	"log/slog"

	"github.com/1broseidon/aurenfox/internal/x11"
)

// X11Agent is an Agent whose windows are real X11 top-level windows.
type X11Agent struct {
	*Agent
	conn *x11.Connection
}

// NewX11Agent opens a fresh X11 connection and builds an agent on it. A
// connection failure is returned unchanged for the host to treat as fatal.
func NewX11Agent(logger *slog.Logger) (*X11Agent, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, err
	}
	return &X11Agent{
		Agent: NewAgent(x11.NewToolkit(conn, logger), logger),
		conn:  conn,
	}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *X11Agent) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}
