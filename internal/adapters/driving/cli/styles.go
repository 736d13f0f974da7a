package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// palette is the colour set of command output.
type palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

func defaultPalette() palette {
	return palette{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// outputStyles are the lipgloss styles commands print with. lipgloss
// drops colours when output is not a terminal, so tests see plain text.
type outputStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newOutputStyles(p palette) outputStyles {
	return outputStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(p.Error),
	}
}

var styles = newOutputStyles(defaultPalette())

// field prints an aligned "label: value" line.
func field(label, value string) string {
	return "  " + styles.Label.Render(label+":") + " " + value
}

// yesNo renders a boolean the way settings show it.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
