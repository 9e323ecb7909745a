package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleBanner = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	styleKey = lipgloss.NewStyle().Foreground(ColorSecondary).Width(10)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

// Field is one "key value" line of a banner.
type Field struct {
	Key   string
	Value string
}

// Banner renders a bordered block with a header line followed by aligned
// key/value rows.
func Banner(title string, fields ...Field) string {
	rows := make([]string, 0, len(fields)+1)
	rows = append(rows, StyleHeader.Render(title))
	for _, f := range fields {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, styleKey.Render(f.Key), StyleTitle.Render(f.Value)))
	}
	return StyleBanner.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Success prefixes msg with a green check mark.
func Success(msg string) string {
	return Icon("✓", StyleSuccess) + " " + msg
}

// Warning prefixes msg with an orange marker.
func Warning(msg string) string {
	return Icon("!", StyleWarning) + " " + msg
}
