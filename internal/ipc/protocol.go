package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/aurenfox/internal/framework"
	"github.com/1broseidon/aurenfox/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandCloseWindow CommandType = "CLOSE_WINDOW"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	framework.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Master  *window.ID    `json:"master,omitempty"`
	Windows []window.Info `json:"windows"`
}

// CloseWindowPayload represents the payload for CLOSE_WINDOW
type CloseWindowPayload struct {
	ID *int `json:"id"`
}

// CloseWindowData reports a queued close. The window is destroyed at the
// start of the next tick.
type CloseWindowData struct {
	ID      window.ID `json:"id"`
	Master  bool      `json:"master"`
	Pending int       `json:"pending"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
