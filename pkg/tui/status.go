package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusType represents the type of status message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

func (t StatusType) icon() string {
	switch t {
	case StatusTypeSuccess:
		return "✓"
	case StatusTypeWarning:
		return "⚠"
	case StatusTypeError:
		return "×"
	default:
		return "ℹ"
	}
}

// StatusMsg asks the app to show a temporary message in the status bar
type StatusMsg struct {
	Text string
	Type StatusType
}

// ClearStatusMsg is sent when a status message expires
type ClearStatusMsg struct {
	seq int
}

func showStatus(statusType StatusType, format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: fmt.Sprintf(format, args...), Type: statusType}
	}
}

// StatusManager holds the current temporary status message
type StatusManager struct {
	current  *StatusMsg
	seq      int
	Duration time.Duration
}

func NewStatusManager() *StatusManager {
	return &StatusManager{
		Duration: 3 * time.Second,
	}
}

// Show replaces the current message and returns the command that clears it
func (sm *StatusManager) Show(msg StatusMsg) tea.Cmd {
	sm.seq++
	sm.current = &msg
	seq := sm.seq

	return tea.Tick(sm.Duration, func(time.Time) tea.Msg {
		return ClearStatusMsg{seq: seq}
	})
}

// Clear drops the message unless a newer one replaced it
func (sm *StatusManager) Clear(msg ClearStatusMsg) {
	if msg.seq == sm.seq {
		sm.current = nil
	}
}

// Status returns the formatted message if one is showing
func (sm *StatusManager) Status() (string, StatusType, bool) {
	if sm.current == nil {
		return "", StatusTypeInfo, false
	}
	return fmt.Sprintf("%s %s", sm.current.Type.icon(), sm.current.Text), sm.current.Type, true
}
