package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	// Force color profile for testing
	lipgloss.SetColorProfile(termenv.ANSI256)

	out := StyleSuccess.Render("Test")
	assert.Contains(t, out, "Test")
	assert.NotEqual(t, "Test", out, "Style should add ANSI codes when forced")
}

func TestIcon(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)

	out := Icon("X", StyleError)
	assert.Contains(t, out, "X")
	assert.NotEqual(t, "X", out)
}

func TestBanner(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Banner("taskapi", Field{Key: "API", Value: "http://localhost:3000"}, Field{Key: "Store", Value: "task.json (json)"})

	assert.Contains(t, out, "taskapi")
	assert.Contains(t, out, "API")
	assert.Contains(t, out, "http://localhost:3000")
	assert.Contains(t, out, "task.json (json)")
	assert.Contains(t, out, "╭", "banner is drawn with a rounded border")
}

func TestSuccessAndWarning(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	assert.Equal(t, "✓ done", Success("done"))
	assert.Equal(t, "! careful", Warning("careful"))
}
