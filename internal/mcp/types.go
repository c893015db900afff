package mcp

import "github.com/1broseidon/aurenfox/internal/window"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	SessionID       string     `json:"session_id"`
	State           string     `json:"state"`
	Master          *window.ID `json:"master,omitempty"`
	WindowCount     int        `json:"window_count"`
	PendingDestroys int        `json:"pending_destroys"`
	Ticks           uint64     `json:"ticks"`
	FramesEnded     uint64     `json:"frames_ended"`
	UptimeSeconds   int64      `json:"uptime_seconds"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes a single live window.
type WindowInfo struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Master  bool   `json:"master"`
	Closing bool   `json:"closing,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	ID int `json:"id" jsonschema:"required,ID of the window to close"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	ID      int  `json:"id"`
	Master  bool `json:"master"`
	Pending int  `json:"pending"`
}
