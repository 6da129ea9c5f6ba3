package cli

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#2E86AB")
	successColor = lipgloss.Color("#46A758")
	errorColor   = lipgloss.Color("#C73E1D")
	mutedColor   = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

func renderTitle(text string) string { return titleStyle.Render(text) }

func renderError(text string) string { return errorStyle.Render("✗ ") + text }

func renderSuccess(text string) string { return okStyle.Render("✓ ") + text }

func renderMuted(text string) string { return mutedStyle.Render(text) }
