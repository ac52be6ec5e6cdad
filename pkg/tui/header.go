package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPaneHeading draws "TITLE ::::::" across the pane width
func renderPaneHeading(width int, heading string, active bool) string {
	heading = strings.ToUpper(heading)
	remaining := width - lipgloss.Width(heading) - 5
	if remaining < 0 {
		remaining = 0
	}

	return ContentPaddingStyle.Render(
		GetActiveHeaderStyle(active).Render(heading) + " " +
			GetActiveColonStyle(active).Render(strings.Repeat(":", remaining)),
	)
}

// renderHeader shows the pane title on the left and the account on the right
func renderHeader(width int, title, account string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorFocus)).
		Bold(true)
	accountStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorNormal))

	left := titleStyle.Render(title)
	right := accountStyle.Render("@" + account)

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return ContentPaddingStyle.Render(left + strings.Repeat(" ", gap) + right)
}
