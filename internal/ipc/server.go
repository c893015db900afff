package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/aurenfox/internal/framework"
	"github.com/1broseidon/aurenfox/internal/runtimepath"
	"github.com/1broseidon/aurenfox/internal/window"
)

// Host is the application surface exposed over IPC. QueueDestroy must be
// safe to call from any goroutine.
type Host interface {
	Status() framework.Status
	QueueDestroy(id window.ID)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	host         Host
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server on the runtime socket path.
func NewServer(host Host, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove stale socket from a previous run
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		host:       host,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("accept failed", "err", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves a single request/response exchange.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("read failed", "err", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send response", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	resp, err := NewOKResponse(StatusData{
		Status:        s.host.Status(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleListWindows() *Response {
	st := s.host.Status()
	windows := st.Windows
	if windows == nil {
		windows = []window.Info{}
	}
	resp, err := NewOKResponse(WindowsData{Master: st.Master, Windows: windows})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleCloseWindow only queues the destroy; the frame loop applies it.
func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var req CloseWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid close payload: %v", err))
	}
	if req.ID == nil {
		return NewErrorResponse("id is required")
	}
	id := window.ID(*req.ID)

	st := s.host.Status()
	if st.State == framework.StateTerminated {
		return NewErrorResponse("application has terminated")
	}
	known := false
	for _, w := range st.Windows {
		if w.ID == id {
			known = true
			break
		}
	}
	if !known {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %d", id))
	}

	s.host.QueueDestroy(id)
	s.logger.Info("close queued", "window", int(id))

	resp, err := NewOKResponse(CloseWindowData{
		ID:      id,
		Master:  st.Master != nil && *st.Master == id,
		Pending: st.PendingDestroys + 1,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
