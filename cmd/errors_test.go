package cmd

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = original }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return strings.TrimSpace(buf.String())
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:        "normal mode without error",
			userMsg:     "User friendly message",
			expectedOut: "User friendly message",
		},
		{
			name:         "verbose mode with error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			verbose:      true,
			expectedOut:  "technical details",
		},
		{
			name:         "normal mode with technical error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			expectedOut:  "User friendly message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			output := captureStderr(t, func() { PrintError(tt.userMsg, tt.technicalErr) })
			assert.Contains(t, output, tt.expectedOut)
		})
	}
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		verbose     bool
		shouldPrint bool
	}{
		{name: "verbose mode with error", err: errors.New("error details"), verbose: true, shouldPrint: true},
		{name: "verbose mode without error", verbose: true, shouldPrint: true},
		{name: "non-verbose mode", err: errors.New("error details"), verbose: false, shouldPrint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			output := captureStderr(t, func() { LogError("Debug message", tt.err) })
			if tt.shouldPrint {
				assert.Contains(t, output, "[DEBUG] Debug message")
			} else {
				assert.Empty(t, output)
			}
		})
	}
}
