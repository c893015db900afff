package framework

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/1broseidon/aurenfox/internal/platform"
	"github.com/1broseidon/aurenfox/internal/window"
)

// UserFunc is per-frame application logic. It runs on the frame loop with
// full access to the App.
type UserFunc func(app *App)

// Status is a point-in-time view of the application, safe to read from any
// goroutine.
type Status struct {
	SessionID       string        `json:"session_id"`
	State           State         `json:"state"`
	Master          *window.ID    `json:"master,omitempty"`
	Windows         []window.Info `json:"windows"`
	PendingDestroys int           `json:"pending_destroys"`
	Stats           Stats         `json:"stats"`
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMaxFPS caps the tick rate. Zero or negative leaves the loop unpaced.
func WithMaxFPS(fps int) Option {
	return func(a *App) {
		if fps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(fps), 1)
		}
	}
}

// WithSessionID overrides the generated run session ID.
func WithSessionID(id string) Option {
	return func(a *App) {
		if id != "" {
			a.sessionID = id
		}
	}
}

// OnTerminate registers a hook invoked once with the final status.
func OnTerminate(fn func(Status)) Option {
	return func(a *App) {
		if fn != nil {
			a.onTerminate = append(a.onTerminate, fn)
		}
	}
}

// App is the application facade. It owns exactly one backend, the destroy
// queue and the frame driver state.
type App struct {
	backend     platform.Backend
	queue       DestroyQueue
	logger      *slog.Logger
	limiter     *rate.Limiter
	sessionID   string
	onTerminate []func(Status)

	// Written only by the loop goroutine.
	state State
	stats Stats

	statusMu sync.RWMutex
	status   Status
}

// New creates an App driving backend.
func New(backend platform.Backend, opts ...Option) *App {
	a := &App{
		backend:   backend,
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.publish()
	return a
}

// SessionID identifies this run.
func (a *App) SessionID() string {
	return a.sessionID
}

// CreateWindow asks the backend to materialize a window.
func (a *App) CreateWindow(cfg window.Config) (window.ID, error) {
	id, err := a.backend.CreateWindow(cfg)
	if err != nil {
		return 0, err
	}
	a.publish()
	return id, nil
}

// AssignMaster marks id as the primary window. Existence is not checked
// here; every frame re-validates it.
func (a *App) AssignMaster(id window.ID) {
	a.backend.AssignMaster(id)
	a.publish()
}

// DestroyWindow removes a window immediately. Code iterating windows from
// inside a UserFunc should use QueueDestroy instead.
func (a *App) DestroyWindow(id window.ID) {
	a.backend.DestroyWindow(id)
	a.publish()
}

// QueueDestroy defers destruction of id to the start of the next tick. It is
// safe to call from any goroutine.
func (a *App) QueueDestroy(id window.ID) {
	a.queue.Enqueue(id)
}

// Windows returns the live windows when the backend can describe them.
func (a *App) Windows() []window.Info {
	if in, ok := a.backend.(platform.Inspector); ok {
		return in.Windows()
	}
	return nil
}

// State returns the frame driver state.
func (a *App) State() State {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status.State
}

// Stats returns frame driver counters.
func (a *App) Stats() Stats {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status.Stats
}

// Status returns the most recently published snapshot.
func (a *App) Status() Status {
	a.statusMu.RLock()
	st := a.status
	a.statusMu.RUnlock()

	st.Windows = append([]window.Info(nil), st.Windows...)
	st.PendingDestroys = a.queue.Len()
	return st
}

// publish refreshes the status snapshot. Loop goroutine only.
func (a *App) publish() {
	st := Status{
		SessionID: a.sessionID,
		State:     a.state,
		Stats:     a.stats,
	}
	if in, ok := a.backend.(platform.Inspector); ok {
		st.Windows = in.Windows()
		if m, ok := in.Master(); ok {
			st.Master = &m
		}
	}

	a.statusMu.Lock()
	a.status = st
	a.statusMu.Unlock()
}
