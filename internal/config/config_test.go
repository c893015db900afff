package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.MasterIndex() != 0 {
		t.Fatalf("expected default window to be master")
	}
	if !cfg.IPC.GetEnabled() {
		t.Fatalf("expected ipc enabled by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file recorded, got %q", res.File)
	}
	if res.Config.Backend != BackendX11 {
		t.Fatalf("expected default backend, got %q", res.Config.Backend)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Windows) != 1 || res.Config.Windows[0].Title != DefaultWindowTitle {
		t.Fatalf("expected default window, got %+v", res.Config.Windows)
	}
}

func TestLoadFromPath_WindowsReplaceDefaultsAndGetSizes(t *testing.T) {
	path := writeConfig(t, `
backend: headless
max_fps: 30
windows:
  - title: Main
    id: 3
    master: true
  - title: Tools
    width: 400
    height: 300
headless:
  close_after_frames: 10
ipc:
  enabled: false
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Backend != BackendHeadless || cfg.MaxFPS != 30 {
		t.Fatalf("unexpected backend/fps: %q/%d", cfg.Backend, cfg.MaxFPS)
	}
	if len(cfg.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(cfg.Windows))
	}
	main := cfg.Windows[0]
	if main.ID == nil || *main.ID != 3 || !main.Master {
		t.Fatalf("unexpected main window: %+v", main)
	}
	if main.Width != DefaultWindowWidth || main.Height != DefaultWindowHeight {
		t.Fatalf("expected default size for main, got %dx%d", main.Width, main.Height)
	}
	if cfg.Windows[1].ID != nil {
		t.Fatalf("expected tools window to use gap-filling id")
	}
	if cfg.Headless.CloseAfterFrames != 10 {
		t.Fatalf("expected close_after_frames 10, got %d", cfg.Headless.CloseAfterFrames)
	}
	if cfg.IPC.GetEnabled() {
		t.Fatalf("expected ipc disabled")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_DuplicateIDHasSourceContext(t *testing.T) {
	path := writeConfig(t, `
windows:
  - title: a
    id: 1
  - title: b
    id: 1
`)
	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "windows[1].id" {
		t.Fatalf("expected path windows[1].id, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":5:") {
		t.Fatalf("expected source line 5 in error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "wayland" }, "backend"},
		{"negative fps", func(c *Config) { c.MaxFPS = -1 }, "max_fps"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative close_after", func(c *Config) { c.Headless.CloseAfterFrames = -2 }, "headless.close_after_frames"},
		{"negative id", func(c *Config) { c.Windows[0].ID = &neg }, "windows[0].id"},
		{"zero size", func(c *Config) { c.Windows[0].Width = 0 }, "windows[0]"},
		{"two masters", func(c *Config) {
			c.Windows = append(c.Windows, WindowSpec{Title: "x", Width: 1, Height: 1, Master: true})
		}, "windows[1].master"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	} {
		cfg.Logging.Level = level
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestGetJournalConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	j := cfg.GetJournalConfig()
	if j.MaxSizeMB != 10 || j.MaxFiles != 3 {
		t.Fatalf("unexpected journal defaults: %+v", j)
	}
	if !strings.HasSuffix(j.File, filepath.Join(".local", "share", "aurenfox", "lifecycle.log")) {
		t.Fatalf("unexpected journal file %q", j.File)
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendHeadless
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeConfig(t, string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load marshalled config: %v", err)
	}
	if res.Config.Backend != BackendHeadless {
		t.Fatalf("expected headless backend, got %q", res.Config.Backend)
	}
}
