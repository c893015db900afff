package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/aurenfox/internal/window"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.host.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		SessionID:       st.SessionID,
		State:           st.State.String(),
		Master:          st.Master,
		WindowCount:     len(st.Windows),
		PendingDestroys: st.PendingDestroys,
		Ticks:           st.Stats.Ticks,
		FramesEnded:     st.Stats.FramesEnded,
		UptimeSeconds:   st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.host.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(data.Windows))}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:      int(w.ID),
			Title:   w.Title,
			Width:   w.Width,
			Height:  w.Height,
			Master:  data.Master != nil && *data.Master == w.ID,
			Closing: w.Closing,
		})
	}
	return nil, out, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if args.ID < 0 {
		return nil, CloseWindowOutput{}, fmt.Errorf("id must be >= 0, got %d", args.ID)
	}
	data, err := s.host.CloseWindow(window.ID(args.ID))
	if err != nil {
		return nil, CloseWindowOutput{}, err
	}

	msg := fmt.Sprintf("Window %d queued for close", data.ID)
	if data.Master {
		msg += " (master: the run ends on the next frame)"
	}
	return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: msg},
			},
		}, CloseWindowOutput{
			ID:      int(data.ID),
			Master:  data.Master,
			Pending: data.Pending,
		}, nil
}
