package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrashHandler_SetContext(t *testing.T) {
	globalContext = &CrashContext{}

	SetBasePath("/tmp/test-taskapi")
	SetVersion("1.0.0-test")
	SetCommand("serve")
	SetLastRequest("GET /tasks/1 id=abc")

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	assert.Equal(t, "/tmp/test-taskapi", globalContext.basePath)
	assert.Equal(t, "1.0.0-test", globalContext.version)
	assert.Equal(t, "serve", globalContext.command)
	assert.Equal(t, "GET /tasks/1 id=abc", globalContext.lastRequest)
}

func TestCrashHandler_SetLastRequest_Truncation(t *testing.T) {
	globalContext = &CrashContext{}

	SetLastRequest("GET /" + strings.Repeat("a", 3000))

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	assert.LessOrEqual(t, len(globalContext.lastRequest), 600)
	assert.Contains(t, globalContext.lastRequest, "[truncated]")
}

func TestCrashHandler_FormatCrashLog(t *testing.T) {
	log := CrashLog{
		Timestamp:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Version:     "1.0.0",
		Command:     "serve",
		PanicValue:  "test panic",
		StackTrace:  "goroutine 1 [running]:\nmain.main()",
		LastRequest: "PUT /task/3",
		GoVersion:   "go1.24.3",
		OS:          "linux",
		Arch:        "amd64",
	}

	formatted := formatCrashLog(log)

	for _, expected := range []string{
		"TASKAPI CRASH LOG",
		"Timestamp: 2025-01-01T12:00:00Z",
		"Version:   1.0.0",
		"Command:   serve",
		"OS/Arch:   linux/amd64",
		"PANIC VALUE",
		"test panic",
		"goroutine 1 [running]",
		"LAST REQUEST",
		"PUT /task/3",
	} {
		assert.Contains(t, formatted, expected)
	}
}

func TestCrashHandler_RecordPanic(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".taskapi")
	globalContext = &CrashContext{basePath: basePath, version: "1.0.0", command: "serve"}

	path, err := RecordPanic("handler exploded")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(basePath, CrashLogDir), filepath.Dir(path))

	logs, err := ListCrashLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)

	content, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "handler exploded")
}

func TestCrashHandler_CleanOldLogs(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".taskapi")
	crashDir := filepath.Join(basePath, CrashLogDir)
	require.NoError(t, os.MkdirAll(crashDir, 0o755))

	globalContext = &CrashContext{basePath: basePath}

	for i := 0; i < MaxCrashLogs+5; i++ {
		name := filepath.Join(crashDir, fmt.Sprintf("crash_20250101_120000_%09d.log", i))
		require.NoError(t, os.WriteFile(name, []byte("test"), 0o644))
	}

	_, err := RecordPanic("one more")
	require.NoError(t, err)

	logs, err := ListCrashLogs()
	require.NoError(t, err)
	assert.Len(t, logs, MaxCrashLogs)
}

func TestCrashHandler_GetCrashLogPath(t *testing.T) {
	globalContext = &CrashContext{basePath: "/tmp/test"}

	path := getCrashLogPath(time.Date(2025, 1, 15, 14, 30, 45, 7, time.UTC))
	assert.Equal(t, "/tmp/test/crash_logs/crash_20250115_143045_000000007.log", path)
}

func TestCrashHandler_DefaultBasePath(t *testing.T) {
	globalContext = &CrashContext{}

	assert.Equal(t, filepath.Join(".taskapi", "crash_logs"), getCrashLogDir())
}
