package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/aurenfox/internal/ipc"
	"github.com/1broseidon/aurenfox/internal/window"
)

const (
	ServerName    = "aurenfox"
	ServerVersion = "0.1.0"
)

// Controller is the subset of the IPC client the tools need.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	CloseWindow(id window.ID) (*ipc.CloseWindowData, error)
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server exposing a running aurenfox host.
type Server struct {
	mcpServer *mcpsdk.Server
	host      Controller
}

// NewServer creates a new MCP server that talks to the host through ctl.
// A nil ctl uses the default IPC client.
func NewServer(ctl Controller) *Server {
	if ctl == nil {
		ctl = ipc.NewClient()
	}
	s := &Server{host: ctl}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the frame loop state of the running aurenfox host: session id, state (idle, running, terminated), master window, live window count, pending destroys and frame counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List live windows ordered by id, with size and whether each is the master window.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Queue a window for destruction. The window is destroyed at the start of the next frame. Closing the master window ends the run.",
	}, s.handleCloseWindow)
}
