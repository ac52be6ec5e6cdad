package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/profilectl/pkg/form"
)

// App hosts the settings editor and drains the form event queue on the
// bubbletea goroutine, so gateway completions and timers run alongside key
// handling.
type App struct {
	editor *SettingsEditorModel
	queue  *form.Queue
	status *StatusManager
	width  int
	height int
}

func NewApp(editor *SettingsEditorModel, queue *form.Queue) *App {
	return &App{
		editor: editor,
		queue:  queue,
		status: NewStatusManager(),
	}
}

// loopEventMsg carries one queued event into Update
type loopEventMsg struct {
	run func()
}

// waitForLoopEvent blocks until the queue has an event. It returns nil once the
// queue is closed, which ends the pump.
func waitForLoopEvent(q *form.Queue) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-q.Events():
			return loopEventMsg{run: fn}
		case <-q.Done():
			return nil
		}
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.editor.Init(), waitForLoopEvent(a.queue)}
	if tip := GetTerminalSetupMessage(); tip != "" {
		cmds = append(cmds, showStatus(StatusTypeInfo, "%s", tip))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.editor.SetSize(msg.Width, msg.Height-1)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case loopEventMsg:
		msg.run()
		return a, waitForLoopEvent(a.queue)

	case StatusMsg:
		return a, a.status.Show(msg)

	case ClearStatusMsg:
		a.status.Clear(msg)
		return a, nil
	}

	_, cmd := a.editor.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	content := a.editor.View()

	if text, typ, ok := a.status.Status(); ok {
		style := StatusBarStyle
		if typ == StatusTypeError {
			style = style.Background(lipgloss.Color(ColorDanger))
		}
		content = lipgloss.JoinVertical(lipgloss.Top, content, style.Render(text))
	}

	return content
}
