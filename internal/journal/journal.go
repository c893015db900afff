// Package journal records window lifecycle events to a rotating file.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/aurenfox/internal/framework"
	"github.com/1broseidon/aurenfox/internal/window"
)

// Action is the kind of lifecycle event being recorded.
type Action string

const (
	ActionRunStart      Action = "RUN-START"
	ActionWindowCreate  Action = "WINDOW-CREATE"
	ActionWindowDestroy Action = "WINDOW-DESTROY"
	ActionWindowClose   Action = "WINDOW-CLOSE"
	ActionRunEnd        Action = "RUN-END"
)

// Config holds configuration for the journal.
type Config struct {
	Enabled  bool
	FilePath string
	// MaxBytes triggers rotation once the file reaches this size. 0 disables
	// rotation.
	MaxBytes int64
	MaxFiles int
	// Session tags every entry so interleaved runs can be told apart.
	Session string
}

// Journal appends one line per lifecycle event. It is safe for concurrent
// use and a nil *Journal discards everything.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

var _ window.Observer = (*Journal)(nil)

// Open creates the journal file (and its directory) if needed.
func Open(cfg Config) (*Journal, error) {
	j := &Journal{config: cfg, now: time.Now}
	if !cfg.Enabled {
		return j, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}

	j.file = f
	j.currentSize = stat.Size()
	return j, nil
}

// WindowCreated implements window.Observer.
func (j *Journal) WindowCreated(info window.Info) {
	j.Record(ActionWindowCreate, map[string]any{
		"id":     int(info.ID),
		"title":  info.Title,
		"width":  info.Width,
		"height": info.Height,
	})
}

// WindowRemoved implements window.Observer.
func (j *Journal) WindowRemoved(info window.Info, reason window.RemoveReason) {
	action := ActionWindowDestroy
	if reason == window.ReasonClosed {
		action = ActionWindowClose
	}
	j.Record(action, map[string]any{
		"id":    int(info.ID),
		"title": info.Title,
	})
}

// RunStarted records the start of a frame loop run.
func (j *Journal) RunStarted(backend string, windows int) {
	j.Record(ActionRunStart, map[string]any{
		"backend": backend,
		"windows": windows,
	})
}

// Terminated records the final status of a run. It has the shape of a framework.OnTerminate hook.
func (j *Journal) Terminated(st framework.Status) {
	details := map[string]any{
		"ticks":        st.Stats.Ticks,
		"frames_ended": st.Stats.FramesEnded,
		"windows":      len(st.Windows),
	}
	if st.Master != nil {
		details["master"] = int(*st.Master)
	}
	j.Record(ActionRunEnd, details)
}

// Record writes a single entry. Details are written in sorted key order.
func (j *Journal) Record(action Action, details map[string]any) {
	if j == nil || !j.config.Enabled {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	if j.config.MaxBytes > 0 && j.currentSize >= j.config.MaxBytes {
		if err := j.rotate(); err != nil {
			// Rotation failed, but keep journaling
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	n, err := j.file.WriteString(j.format(action, details))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

func (j *Journal) format(action Action, details map[string]any) string {
	var sb strings.Builder
	sb.WriteString(j.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if j.config.Session != "" {
		sb.WriteString(" session=")
		sb.WriteString(j.config.Session)
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch val := details[k].(type) {
		case string:
			sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
		default:
			sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts lifecycle.log -> .1 -> .2 ... keeping MaxFiles rotated files.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	basePath := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if j.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate journal: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}

	j.file = f
	j.currentSize = 0
	return nil
}
