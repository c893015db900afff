package framework

import (
	"context"
)

// Run drives the frame loop until the backend reports termination. fn may be
// nil, which leaves the loop doing housekeeping only.
func (a *App) Run(fn UserFunc) error {
	return a.RunContext(context.Background(), fn)
}

// RunContext is Run with host cancellation: once ctx is done the next
// terminate check ends the loop, and it returns ctx.Err(). A natural
// termination returns nil.
func (a *App) RunContext(ctx context.Context, fn UserFunc) error {
	switch a.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateTerminated:
		return ErrTerminated
	}

	a.state = StateRunning
	a.publish()
	a.logger.Info("frame loop started", "session", a.sessionID)

	for a.tick(ctx, fn) {
		if a.limiter == nil {
			continue
		}
		// A cancelled wait falls through to the next terminate check.
		_ = a.limiter.Wait(ctx)
	}

	a.state = StateTerminated
	a.publish()

	final := a.Status()
	a.logger.Info("frame loop terminated",
		"session", a.sessionID,
		"ticks", final.Stats.Ticks,
		"frames_ended", final.Stats.FramesEnded,
		"windows", len(final.Windows))
	for _, hook := range a.onTerminate {
		hook(final)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// tick runs one frame and reports whether the loop continues.
func (a *App) tick(ctx context.Context, fn UserFunc) bool {
	if a.backend.ShouldClose() || ctx.Err() != nil {
		return false
	}
	a.stats.Ticks++

	// Destroys queued during the previous tick land before any frame work.
	for _, id := range a.queue.Drain() {
		a.backend.DestroyWindow(id)
		a.stats.Destroyed++
	}

	a.backend.StartFrame()
	a.stats.FramesStarted++
	if a.backend.ShouldClose() {
		a.publish()
		return true
	}

	if fn != nil {
		fn(a)
		a.stats.UserCalls++
	}

	a.backend.EndFrame()
	a.stats.FramesEnded++
	a.publish()
	return true
}
