package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/csvdesk/csvdesk/internal/events"
)

// Theme defines the core UI styles
var Theme = struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	PageInfo lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Prompt   lipgloss.Style
	Help     lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Subtle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	PageInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A0A0A0")).
		MarginTop(1),
	Info: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F87")).
		Bold(true),
	Prompt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD866")).
		Bold(true),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
}

func severityStyle(s events.Severity) lipgloss.Style {
	switch s {
	case events.SeveritySuccess:
		return Theme.Success
	case events.SeverityError:
		return Theme.Error
	default:
		return Theme.Info
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#666666")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7B61FF")).
		Bold(false)
	return s
}
