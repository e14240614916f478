package render

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/paesdx/internal/diagnosis"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary).
		MarginTop(1)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Padding(0, 1)

	Cell = lipgloss.NewStyle().
		Padding(0, 1)
)

var (
	Mastered = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Gap = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Misconception = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// StateStyle returns the style for a diagnosis state.
func StateStyle(s diagnosis.State) lipgloss.Style {
	switch s {
	case diagnosis.StateMastered:
		return Mastered
	case diagnosis.StateGap:
		return Gap
	case diagnosis.StateMisconception:
		return Misconception
	default:
		return Label
	}
}
