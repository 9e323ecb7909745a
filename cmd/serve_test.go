package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/taskapi/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig(dataFile string) types.AppConfig {
	return types.AppConfig{
		Server: types.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 2 * time.Second},
		Data:   types.DataConfig{Backend: "file", File: dataFile},
		Log:    types.LogConfig{Level: "info", Format: "text"},
	}
}

// syncBuffer lets the test read serve's banner while serve is still running.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var apiURL = regexp.MustCompile(`http://127\.0\.0\.1:\d+`)

func TestServe_ServesUntilCancelled(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "task.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{"tasks":[{"id":1,"title":"A","description":"d","completed":false,"priority":"low"}]}`), 0o644))
	cfg := validTestConfig(dataFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, &cfg, out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	var base string
	require.Eventually(t, func() bool {
		base = apiURL.FindString(out.String())
		return base != ""
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), dataFile+" (json)")

	resp, err := http.Post(base+"/tasks", "application/json", strings.NewReader(`{"title":"B","description":"e"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":2,"title":"B","description":"e","completed":false,"priority":"medium"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	data, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "B"`)
}

func TestServe_BindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	dataFile := filepath.Join(t.TempDir(), "task.json")
	cfg := validTestConfig(dataFile)
	cfg.Server.Port = busy.Addr().(*net.TCPAddr).Port

	err = serve(context.Background(), &cfg, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start API server")
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	cfg := validTestConfig("task.json")
	cfg.Verbose = true

	var buf bytes.Buffer
	log, err := newLogger(&cfg, &buf)
	require.NoError(t, err)
	log.Debug("hello")
	assert.Contains(t, buf.String(), "hello")

	cfg.Verbose = false
	viper.Set("verbose", false)
	buf.Reset()
	log, err = newLogger(&cfg, &buf)
	require.NoError(t, err)
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestInitCmd(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "task.json")

	run := func(args ...string) string {
		t.Helper()
		b := bytes.NewBufferString("")
		rootCmd.SetOut(b)
		rootCmd.SetArgs(append([]string{"init", "--file", dataFile}, args...))
		require.NoError(t, rootCmd.Execute())
		return b.String()
	}
	defer func() {
		rootCmd.SetArgs(nil)
		initForce = false
	}()

	out := run()
	assert.Contains(t, out, "Initialized empty task store")
	data, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"tasks\": []\n}", string(data))

	seeded := `{"tasks":[{"id":1,"title":"A","description":"d","completed":false,"priority":"low"}]}`
	require.NoError(t, os.WriteFile(dataFile, []byte(seeded), 0o644))

	out = run()
	assert.Contains(t, out, "already holds 1 tasks")
	data, err = os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Equal(t, seeded, string(data))

	out = run("--force")
	assert.Contains(t, out, "Initialized empty task store")
	data, err = os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"tasks\": []\n}", string(data))
}
