package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/deckhand/internal/session"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook persists the user's journey through the deck workflow to a plain
// text file shown in the TUI log panel.
type Logbook struct {
	path  string
	mu    sync.Mutex
	clock func() time.Time
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path, clock: func() time.Time { return time.Now().UTC() }}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		l.clock().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(strings.ReplaceAll(message, "\n", " ")),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent entries and the total
// number of entries in the logbook.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total == 0 {
		return nil, 0
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Subscriber is the part of the session store the logbook follows.
type Subscriber interface {
	Get() session.State
	Subscribe(func(session.State)) func()
}

// Follow records phase, project and language changes of store until the
// returned func is called.
func (l *Logbook) Follow(store Subscriber) func() {
	if l == nil || store == nil {
		return func() {}
	}
	var mu sync.Mutex
	last := store.Get()
	return store.Subscribe(func(next session.State) {
		mu.Lock()
		prev := last
		last = next
		mu.Unlock()
		if prev.ProjectID != next.ProjectID {
			if next.ProjectID == "" {
				l.Info("project %s closed", prev.ProjectID)
			} else {
				l.Info("project %s opened", next.ProjectID)
			}
		}
		if prev.Phase != next.Phase {
			l.Info("phase %s -> %s", prev.Phase, next.Phase)
		}
		if prev.Language != next.Language {
			l.Info("language %s", next.Language)
		}
		if !prev.GenerationComplete && next.GenerationComplete {
			l.Info("generation complete")
		}
	})
}
