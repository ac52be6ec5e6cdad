package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ViewTitle renders the white-on-black title block shown above a pane
type ViewTitle struct {
	text string
}

func NewViewTitle(text string) *ViewTitle {
	return &ViewTitle{text: text}
}

// SetText replaces the title, e.g. after the language changes
func (v *ViewTitle) SetText(text string) {
	v.text = text
}

func (v *ViewTitle) View() string {
	if v.text == "" {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Background(lipgloss.Color("0")).
		Bold(true).
		Padding(0, 1)

	return titleStyle.Render("\n" + v.text + "\n")
}

// ViewTitleHeight returns the height of a rendered title
func ViewTitleHeight() int {
	return 3
}
