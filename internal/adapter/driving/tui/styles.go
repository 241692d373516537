package tui

import "github.com/charmbracelet/lipgloss"

// Input line
var (
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Dropdown
var (
	dropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activeRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
	rowStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	starsStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Status line
var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
