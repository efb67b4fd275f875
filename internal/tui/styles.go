// Package tui holds the terminal styles used by the interactive commands.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary  = lipgloss.Color("#2f80ed")                          // Blue
	ColorDisabled = lipgloss.AdaptiveColor{Light: "250", Dark: "238"} // Grey
)

var (
	HeadingStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SelectedTextStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	DisabledTextStyle = lipgloss.NewStyle().Foreground(ColorDisabled)
	LabelStyle        = lipgloss.NewStyle().Bold(true).Width(10)
)

// Heading renders a section heading
func Heading(text string) string {
	return HeadingStyle.Render(text)
}

// Field renders a "label value" line with the labels aligned
func Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label+":"), SelectedTextStyle.Render(value))
}
