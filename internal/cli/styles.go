package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Status styles used for terminal feedback on standard error. Artifact
// output on standard output is never styled so it stays paste-clean.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
