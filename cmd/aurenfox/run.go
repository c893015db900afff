package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/1broseidon/aurenfox/internal/config"
	"github.com/1broseidon/aurenfox/internal/framework"
	"github.com/1broseidon/aurenfox/internal/ipc"
	"github.com/1broseidon/aurenfox/internal/journal"
	"github.com/1broseidon/aurenfox/internal/platform"
	"github.com/1broseidon/aurenfox/internal/platform/headless"
	"github.com/1broseidon/aurenfox/internal/window"
)

// observable is implemented by backends built on platform.Agent.
type observable interface {
	Registry() *window.Registry
}

func runHost(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/aurenfox/config.yaml)")
	backendName := fs.String("backend", "", "Backend override: x11 or headless")
	frames := fs.Int("frames", 0, "Queue every window for close at this frame (0 = never)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: aurenfox run [--config PATH] [--backend x11|headless] [--frames N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the configured windows and drive the frame loop until the master")
		fmt.Fprintln(os.Stderr, "window goes away, no windows remain, or SIGINT/SIGTERM arrives.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *backendName != "" {
		cfg.Backend = *backendName
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	logger := newLogger(cfg)
	session := uuid.NewString()

	backend, disconnect, err := openBackend(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer disconnect()

	jr, err := openJournal(cfg, session)
	if err != nil {
		logger.Warn("journal disabled", "err", err)
		jr = nil
	}
	defer jr.Close()

	app := framework.New(backend,
		framework.WithLogger(logger),
		framework.WithMaxFPS(cfg.MaxFPS),
		framework.WithSessionID(session),
		framework.OnTerminate(jr.Terminated),
	)
	if obs, ok := backend.(observable); ok && jr != nil {
		obs.Registry().SetObserver(jr)
	}

	if _, err := createWindows(app, cfg); err != nil {
		log.Fatalf("Failed to create windows: %v", err)
	}
	jr.RunStarted(cfg.Backend, len(cfg.Windows))

	if cfg.IPC.GetEnabled() {
		srv, err := ipc.NewServer(app, logger)
		if err != nil {
			log.Fatalf("Failed to create IPC server: %v", err)
		}
		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to start IPC server: %v", err)
		}
		defer srv.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.RunContext(ctx, closeAtFrame(*frames))
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down on signal")
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// openBackend builds the configured backend. The returned func releases the
// native connection.
func openBackend(cfg *config.Config, logger *slog.Logger) (platform.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendHeadless:
		tk := headless.New(headless.Options{CloseAfter: cfg.Headless.CloseAfterFrames})
		return platform.NewAgent(tk, logger), func() {}, nil
	case config.BackendX11:
		agent, err := platform.NewX11Agent(logger)
		if err != nil {
			return nil, nil, err
		}
		return agent, agent.Disconnect, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openJournal(cfg *config.Config, session string) (*journal.Journal, error) {
	jc := cfg.GetJournalConfig()
	if !jc.Enabled {
		return nil, nil
	}
	return journal.Open(journal.Config{
		Enabled:  true,
		FilePath: jc.File,
		MaxBytes: int64(jc.MaxSizeMB) * 1024 * 1024,
		MaxFiles: jc.MaxFiles,
		Session:  session,
	})
}

// createWindows opens every configured window in order and assigns the
// master. It returns the assigned IDs in config order.
func createWindows(app *framework.App, cfg *config.Config) ([]window.ID, error) {
	ids := make([]window.ID, 0, len(cfg.Windows))
	for i, spec := range cfg.Windows {
		wc := window.Config{Title: spec.Title, Width: spec.Width, Height: spec.Height}
		if spec.ID != nil {
			wc.ID = window.WithID(window.ID(*spec.ID))
		}
		id, err := app.CreateWindow(wc)
		if err != nil {
			return ids, fmt.Errorf("windows[%d]: %w", i, err)
		}
		if spec.Master {
			app.AssignMaster(id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// closeAtFrame returns a user func that queues every live window for close
// on frame n. n <= 0 leaves the loop doing housekeeping only.
func closeAtFrame(n int) framework.UserFunc {
	if n <= 0 {
		return nil
	}
	frame := 0
	return func(app *framework.App) {
		frame++
		if frame != n {
			return
		}
		for _, w := range app.Windows() {
			app.QueueDestroy(w.ID)
		}
	}
}
