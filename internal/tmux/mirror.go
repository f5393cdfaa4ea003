package tmux

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GianlucaP106/gotmux/gotmux"

	"github.com/vburojevic/editorctl/internal/domain"
)

// ErrNoPaneAvailable is returned when the mirror session has no usable pane
var ErrNoPaneAvailable = errors.New("no tmux pane available")

// Mirror echoes intercepted log entries into a tmux pane so a human can
// watch what an agent is doing to the editor without attaching a debugger.
// Mirroring is best-effort; callers treat any error as non-fatal.
type Mirror struct {
	mu          sync.Mutex
	sessionName string
	pane        *gotmux.Pane
}

// NewMirror attaches to (or creates) the named tmux session and targets its
// first pane
func NewMirror(sessionName string) (*Mirror, error) {
	tmux, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("tmux not available: %w", err)
	}

	session, err := tmux.GetSessionByName(sessionName)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session, err = tmux.NewSession(&gotmux.SessionOptions{Name: sessionName})
		if err != nil {
			return nil, fmt.Errorf("create tmux session %q: %w", sessionName, err)
		}
	}

	windows, err := session.ListWindows()
	if err != nil || len(windows) == 0 {
		return nil, ErrNoPaneAvailable
	}
	panes, err := windows[0].ListPanes()
	if err != nil || len(panes) == 0 {
		return nil, ErrNoPaneAvailable
	}

	return &Mirror{sessionName: sessionName, pane: panes[0]}, nil
}

// AttachCommand returns the shell command a human uses to attach
func (m *Mirror) AttachCommand() string {
	return fmt.Sprintf("tmux attach -t %s", m.sessionName)
}

// WriteBanner writes a visual marker when mirroring starts
func (m *Mirror) WriteBanner(port int) error {
	banner := fmt.Sprintf(
		"═══════════════════════════════════════════════════════════\n"+
			"  editorctl - mirroring editor logs\n"+
			"  Endpoint: 127.0.0.1:%d | Started: %s\n"+
			"═══════════════════════════════════════════════════════════",
		port,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	for _, line := range strings.Split(banner, "\n") {
		if err := m.writeLine(line); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntry mirrors one log entry into the pane
func (m *Mirror) WriteEntry(entry domain.LogEntry) error {
	line := fmt.Sprintf("[%s] %-9s %s",
		entry.Timestamp.Format("15:04:05"),
		entry.Severity,
		entry.Message)
	return m.writeLine(line)
}

func (m *Mirror) writeLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == nil {
		return ErrNoPaneAvailable
	}
	escaped := escapeShellString(line)
	return m.pane.SendKeys(fmt.Sprintf("echo '%s'\n", escaped))
}

// escapeShellString escapes special characters for the echo command
func escapeShellString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "'\"'\"'")
	return s
}
