package window

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry owns the live windows in creation order. It is driven from the
// frame loop only and is not safe for concurrent use.
type Registry struct {
	toolkit  Toolkit
	windows  []*Window
	observer Observer
	logger   *slog.Logger
}

// NewRegistry creates an empty registry on top of toolkit.
func NewRegistry(toolkit Toolkit, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		toolkit: toolkit,
		logger:  logger,
	}
}

// SetObserver installs an observer for membership changes. Pass nil to remove.
func (r *Registry) SetObserver(o Observer) {
	r.observer = o
}

// Toolkit returns the toolkit backing the registry.
func (r *Registry) Toolkit() Toolkit {
	return r.toolkit
}

// Create materializes a new window and returns its ID.
//
// The ID is resolved before the toolkit is asked for a surface so that a
// rejected request never allocates native resources. On any error the
// registry is left untouched.
func (r *Registry) Create(cfg Config) (ID, error) {
	var id ID
	if cfg.ID != nil {
		id = *cfg.ID
		if id < 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidIdentity, id)
		}
		if r.Exists(id) {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateIdentity, id)
		}
	} else {
		id = NextID(r.IDs())
	}

	surface, err := r.toolkit.CreateSurface(cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		return 0, fmt.Errorf("%w: %q on %s: %v", ErrBackendCreationFailed, cfg.Title, r.toolkit.Name(), err)
	}

	w := &Window{
		ID:      id,
		Title:   cfg.Title,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Surface: surface,
	}
	r.windows = append(r.windows, w)

	r.logger.Debug("window created", "id", id, "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	if r.observer != nil {
		r.observer.WindowCreated(w.info())
	}
	return id, nil
}

// Destroy removes the window with the given ID and releases its surface.
// Unknown IDs are ignored.
func (r *Registry) Destroy(id ID) {
	for i, w := range r.windows {
		if w.ID != id {
			continue
		}
		r.windows = append(r.windows[:i], r.windows[i+1:]...)
		r.release(w, ReasonDestroyed)
		return
	}
}

// Exists reports whether a live window holds id.
func (r *Registry) Exists(id ID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Lookup returns the live window holding id.
func (r *Registry) Lookup(id ID) (*Window, bool) {
	for _, w := range r.windows {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// Count returns the number of live windows, including ones marked closing.
func (r *Registry) Count() int {
	return len(r.windows)
}

// IDs returns live IDs in creation order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.windows))
	for _, w := range r.windows {
		ids = append(ids, w.ID)
	}
	return ids
}

// Infos returns snapshots of all live windows sorted by ID.
func (r *Registry) Infos() []Info {
	infos := make([]Info, 0, len(r.windows))
	for _, w := range r.windows {
		infos = append(infos, w.info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Windows returns the live windows in creation order. The slice is a copy;
// the windows are not.
func (r *Registry) Windows() []*Window {
	out := make([]*Window, len(r.windows))
	copy(out, r.windows)
	return out
}

// Poll pumps the toolkit once and applies pending notifications. A close
// request only marks the window; removal waits for ReapClosed.
func (r *Registry) Poll() {
	r.toolkit.Pump()

	for _, w := range r.windows {
		for _, ev := range w.Surface.Events() {
			switch ev.Type {
			case EventResize:
				w.Width = ev.Width
				w.Height = ev.Height
			case EventClose:
				if !w.closing {
					r.logger.Debug("window close requested", "id", w.ID)
				}
				w.closing = true
			}
		}
	}
}

// ReapClosed removes every window the toolkit reported as closing and returns
// the IDs removed.
func (r *Registry) ReapClosed() []ID {
	var reaped []ID
	kept := r.windows[:0]
	var closed []*Window
	for _, w := range r.windows {
		if w.closing {
			closed = append(closed, w)
			reaped = append(reaped, w.ID)
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(r.windows); i++ {
		r.windows[i] = nil
	}
	r.windows = kept

	for _, w := range closed {
		r.release(w, ReasonClosed)
	}
	return reaped
}

func (r *Registry) release(w *Window, reason RemoveReason) {
	w.Surface.Destroy()
	r.logger.Debug("window removed", "id", w.ID, "reason", string(reason))
	if r.observer != nil {
		r.observer.WindowRemoved(w.info(), reason)
	}
}
