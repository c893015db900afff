// Package tui is a live terminal view of a running aurenfox host.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/aurenfox/internal/ipc"
	"github.com/1broseidon/aurenfox/internal/window"
)

// DefaultInterval is how often the window table is refreshed.
const DefaultInterval = 500 * time.Millisecond

// Client is the part of the IPC client the TUI uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	CloseWindow(id window.ID) (*ipc.CloseWindowData, error)
}

// Run starts the TUI and blocks until the user quits.
func Run(client Client, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if client == nil {
		client = ipc.NewClient()
	}

	p := tea.NewProgram(newModel(client, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
