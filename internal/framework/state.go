package framework

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned when Run is re-entered, e.g. from user code.
	ErrAlreadyRunning = errors.New("frame loop already running")
	// ErrTerminated is returned when Run is called after the loop ended.
	ErrTerminated = errors.New("frame loop already terminated")
)

// State is the frame driver's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "running":
		*s = StateRunning
	case "terminated":
		*s = StateTerminated
	default:
		return fmt.Errorf("unknown state %q", string(text))
	}
	return nil
}

// Stats counts frame driver progress.
type Stats struct {
	// Ticks counts iterations that passed the terminate check.
	Ticks         uint64 `json:"ticks"`
	FramesStarted uint64 `json:"frames_started"`
	UserCalls     uint64 `json:"user_calls"`
	FramesEnded   uint64 `json:"frames_ended"`
	Destroyed     uint64 `json:"destroyed_from_queue"`
}
