package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmueller/srt2vtt/internal/config"
	"github.com/fmueller/srt2vtt/internal/convert"
	"github.com/stretchr/testify/require"
)

// newTestApp returns an app that ignores any user config file and never
// treats stderr as a terminal.
func newTestApp() *appState {
	return &appState{
		offset:    "0",
		summary:   true,
		convertFn: convert.Convert,
		loadConfig: func(string) (config.Config, string, bool, error) {
			return config.Default(), "", false, nil
		},
		isTerminal: func() bool { return false },
	}
}

func runApp(t *testing.T, app *appState, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd(app)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()
	return runApp(t, newTestApp(), args)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
