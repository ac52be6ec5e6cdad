package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Bold(true)
	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))
	helpSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorInactive))
)

// formatHelpText renders "key action" pairs, highlighting the key part
func formatHelpText(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		key, desc, found := strings.Cut(item, " ")
		if !found {
			parts = append(parts, helpKeyStyle.Render(item))
			continue
		}
		parts = append(parts, helpKeyStyle.Render(key)+" "+helpDescStyle.Render(desc))
	}
	return strings.Join(parts, helpSepStyle.Render("  •  "))
}

// formatConfirmOptions renders the [Y]/[N] prompt; destructive prompts color Y red
func formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true)
	no := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)).Bold(true)
	if destructive {
		yes, no = no, yes
	}
	return yes.Render("[Y]") + " / " + no.Render("[N]")
}
