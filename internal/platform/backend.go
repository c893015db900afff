package platform

import (
	"log/slog"

	"github.com/1broseidon/aurenfox/internal/window"
)

// Backend is the rendering/windowing capability the frame loop drives. The
// loop never learns which toolkit sits behind it.
type Backend interface {
	// CreateWindow materializes a native window and registers it.
	CreateWindow(cfg window.Config) (window.ID, error)
	// AssignMaster records the window whose disappearance ends the run.
	AssignMaster(id window.ID)
	// StartFrame reaps closed windows, re-evaluates termination and polls
	// native events.
	StartFrame()
	// EndFrame presents every live window. It does nothing once termination
	// has been flagged.
	EndFrame()
	// ShouldClose reports the termination flag.
	ShouldClose() bool
	// DestroyWindow removes a window and releases its native resources.
	// Unknown IDs are ignored.
	DestroyWindow(id window.ID)
}

// Inspector is implemented by backends that can describe their windows.
type Inspector interface {
	Master() (window.ID, bool)
	Windows() []window.Info
}

// Agent is the stock Backend: a window registry over a native toolkit plus
// the termination bookkeeping.
type Agent struct {
	registry  *window.Registry
	logger    *slog.Logger
	master    *window.ID
	terminate bool
}

var (
	_ Backend   = (*Agent)(nil)
	_ Inspector = (*Agent)(nil)
)

// NewAgent creates a backend agent on top of toolkit.
func NewAgent(toolkit window.Toolkit, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		registry: window.NewRegistry(toolkit, logger),
		logger:   logger,
	}
}

// Registry exposes the underlying window registry.
func (a *Agent) Registry() *window.Registry {
	return a.registry
}

func (a *Agent) CreateWindow(cfg window.Config) (window.ID, error) {
	return a.registry.Create(cfg)
}

func (a *Agent) AssignMaster(id window.ID) {
	a.master = &id
	a.logger.Debug("master window assigned", "id", id)
}

// Master returns the assigned master window, if any.
func (a *Agent) Master() (window.ID, bool) {
	if a.master == nil {
		return 0, false
	}
	return *a.master, true
}

// Windows returns snapshots of the live windows sorted by ID.
func (a *Agent) Windows() []window.Info {
	return a.registry.Infos()
}

func (a *Agent) StartFrame() {
	if reaped := a.registry.ReapClosed(); len(reaped) > 0 {
		a.logger.Debug("reaped closed windows", "ids", reaped)
	}

	if a.registry.Count() == 0 {
		a.flagTerminate("no windows remain")
		return
	}
	if a.master != nil && !a.registry.Exists(*a.master) {
		a.flagTerminate("master window gone")
		return
	}

	a.registry.Poll()
}

func (a *Agent) EndFrame() {
	if a.terminate {
		return
	}
	for _, w := range a.registry.Windows() {
		if err := w.Surface.Present(); err != nil {
			a.logger.Warn("present failed", "id", w.ID, "error", err)
		}
	}
}

func (a *Agent) ShouldClose() bool {
	return a.terminate
}

func (a *Agent) DestroyWindow(id window.ID) {
	a.registry.Destroy(id)
}

func (a *Agent) flagTerminate(reason string) {
	if !a.terminate {
		a.logger.Info("termination flagged", "reason", reason)
	}
	a.terminate = true
}
