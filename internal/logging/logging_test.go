package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(NewHandler(&stdout, &stderr, slog.LevelInfo, false))

	logger.Debug("hidden")
	logger.Info("hello", "user", "alice")
	logger.Warn("careful")
	logger.Error("broken", "error", "boom")

	out := stdout.String()
	errOut := stderr.String()

	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, errOut, "hidden")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "user=alice")
	assert.Contains(t, out, "careful")
	assert.NotContains(t, out, "broken")
	assert.Contains(t, errOut, "broken")
}

func TestWithAttrsKeepsRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(NewHandler(&stdout, &stderr, slog.LevelDebug, false)).With("component", "api")

	logger.Debug("visible")
	logger.Error("failed")

	assert.Contains(t, stdout.String(), "component=api")
	assert.Contains(t, stderr.String(), "component=api")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetupWritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "zaloga.log")
	cleanup, err := Setup(path, slog.LevelInfo)
	require.NoError(t, err)

	slog.Info("written to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.NotContains(t, string(data), "\x1b[", "log file should not contain color codes")
}
