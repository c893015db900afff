package window

import (
	"errors"
	"sort"
)

// ID identifies a live window. IDs are small non-negative integers and are
// reused once the window holding them is gone.
type ID int

var (
	// ErrDuplicateIdentity is returned when an explicitly requested ID is
	// already held by a live window.
	ErrDuplicateIdentity = errors.New("window id already in use")
	// ErrInvalidIdentity is returned for negative explicit IDs.
	ErrInvalidIdentity = errors.New("window id must be non-negative")
	// ErrBackendCreationFailed wraps toolkit failures while materializing a
	// native surface.
	ErrBackendCreationFailed = errors.New("backend failed to create window")
)

// Config describes a window to create. A nil ID requests gap-filling
// assignment.
type Config struct {
	Title  string
	Width  int
	Height int
	ID     *ID
}

// WithID returns a pointer to id, for use as Config.ID.
func WithID(id ID) *ID {
	return &id
}

// Window is one live on-screen surface tracked by the registry.
type Window struct {
	ID      ID
	Title   string
	Width   int
	Height  int
	Surface Surface

	closing bool
}

// Closing reports whether the toolkit asked for this window to close. The
// window stays live until the next ReapClosed.
func (w *Window) Closing() bool {
	return w.closing
}

// Info is an immutable snapshot of a window, safe to hand to other goroutines.
type Info struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Closing bool   `json:"closing"`
}

func (w *Window) info() Info {
	return Info{
		ID:      w.ID,
		Title:   w.Title,
		Width:   w.Width,
		Height:  w.Height,
		Closing: w.closing,
	}
}

// NextID returns the smallest non-negative ID not present in live.
//
// The live IDs are sorted and the first index whose ID differs from the index
// is the answer; with no gap the next ID is len(live).
func NextID(live []ID) ID {
	ids := make([]ID, len(live))
	copy(ids, live)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i, id := range ids {
		if id != ID(i) {
			return ID(i)
		}
	}
	return ID(len(ids))
}
