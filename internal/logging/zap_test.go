package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsoleSkipsDebugByDefault(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := New(Options{Writer: buf})
	logger.Debug("hidden")
	logger.Info("converted", zap.String("file", "a.srt"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "converted")
	require.Contains(t, out, "a.srt")
	require.NotContains(t, out, "\x1b[")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	New(Options{Verbose: true, Writer: buf}).Debug("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	New(Options{JSON: true, Writer: buf}).Warn("conversion failed", zap.String("file", "b.srt"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "conversion failed", entry["msg"])
	require.Equal(t, "b.srt", entry["file"])
}

func TestNewColor(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	New(Options{Color: true, Writer: buf}).Info("x")
	require.Contains(t, buf.String(), "\x1b[")
}
