package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmueller/srt2vtt/internal/convert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	var calls []string
	runner := Runner{
		Convert: func(path string, _ int64) (string, error) {
			calls = append(calls, path)
			if path == "b.srt" {
				return "", errors.New("permission denied")
			}
			return strings.TrimSuffix(path, ".srt") + ".vtt", nil
		},
	}

	summary := runner.Run(context.Background(), []string{"a.srt", "b.srt", "c.srt"}, 0)

	require.Equal(t, []string{"a.srt", "b.srt", "c.srt"}, calls)
	require.Len(t, summary.Results, 3)
	require.Equal(t, 2, summary.Done())
	require.Equal(t, 1, summary.Failed())
	require.Equal(t, 0, summary.Cancelled())
	require.Equal(t, "ERROR: permission denied", summary.Results[1].Message())
	require.Equal(t, "c.vtt", summary.Results[2].Output)
	require.EqualError(t, summary.Err(), "1 of 3 files failed to convert")
}

func TestRunPassesOffsetThrough(t *testing.T) {
	t.Parallel()

	var seen []int64
	runner := Runner{
		Convert: func(_ string, offsetMs int64) (string, error) {
			seen = append(seen, offsetMs)
			return "out.vtt", nil
		},
	}

	summary := runner.Run(context.Background(), []string{"a.srt", "b.srt"}, -2000)
	require.NoError(t, summary.Err())
	require.Equal(t, []int64{-2000, -2000}, seen)
}

func TestRunCancelBetweenFiles(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reported []int
	runner := Runner{
		Convert: func(path string, _ int64) (string, error) {
			if path == "b.srt" {
				// The file in progress still finishes.
				cancel()
			}
			return path + ".vtt", nil
		},
		OnResult: func(r Result) {
			reported = append(reported, r.Index)
		},
	}

	summary := runner.Run(ctx, []string{"a.srt", "b.srt", "c.srt", "d.srt"}, 0)

	require.Equal(t, []int{1, 2}, reported)
	require.Equal(t, StatusDone, summary.Results[1].Status)
	require.Equal(t, StatusCancelled, summary.Results[2].Status)
	require.Equal(t, StatusCancelled, summary.Results[3].Status)
	require.Equal(t, "Cancelled", summary.Results[3].Message())
	require.ErrorIs(t, summary.Err(), ErrCancelled)
}

func TestRunAlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := Runner{
		Convert: func(string, int64) (string, error) {
			t.Fatal("converter must not run after cancellation")
			return "", nil
		},
	}

	summary := runner.Run(ctx, []string{"a.srt", "b.srt"}, 0)
	require.Equal(t, 2, summary.Cancelled())
}

func TestRunRecoversConverterPanic(t *testing.T) {
	t.Parallel()

	runner := Runner{
		Convert: func(path string, _ int64) (string, error) {
			if path == "a.srt" {
				panic("boom")
			}
			return "b.vtt", nil
		},
	}

	summary := runner.Run(context.Background(), []string{"a.srt", "b.srt"}, 0)
	require.Equal(t, StatusError, summary.Results[0].Status)
	require.Contains(t, summary.Results[0].Err.Error(), "boom")
	require.Equal(t, StatusDone, summary.Results[1].Status)
}

func TestRunWithoutConverter(t *testing.T) {
	t.Parallel()

	summary := (&Runner{}).Run(context.Background(), []string{"a.srt"}, 0)
	require.Equal(t, 1, summary.Failed())
}

func TestRunLogsFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	runner := Runner{
		Convert: func(string, int64) (string, error) { return "", errors.New("nope") },
		Logger:  zap.New(core),
	}

	runner.Run(context.Background(), []string{"a.srt"}, 0)

	entries := logs.FilterMessage("conversion failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "a.srt", entries[0].ContextMap()["file"])
}

func TestRunWithRealConverter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.srt")
	bad := filepath.Join(dir, "bad.srt")
	missing := filepath.Join(dir, "missing.srt")
	require.NoError(t, os.WriteFile(good, []byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("1\n00:00:70,000 --> 00:00:71,000\nHi\n"), 0o644))

	runner := Runner{Convert: convert.Convert}
	summary := runner.Run(context.Background(), []string{bad, missing, good}, 500)

	require.Equal(t, StatusError, summary.Results[0].Status)
	var fe *convert.FormatError
	require.ErrorAs(t, summary.Results[0].Err, &fe)

	require.Equal(t, StatusError, summary.Results[1].Status)
	var ioErr *convert.IOError
	require.ErrorAs(t, summary.Results[1].Err, &ioErr)

	require.Equal(t, StatusDone, summary.Results[2].Status)
	data, err := os.ReadFile(summary.Results[2].Output)
	require.NoError(t, err)
	require.Equal(t, "WEBVTT\n\n00:00:01.500 --> 00:00:02.500\nHi\n", string(data))
}

func TestSummaryErrBothFailedAndCancelled(t *testing.T) {
	t.Parallel()

	summary := Summary{Results: []Result{
		{Index: 1, Status: StatusError, Err: errors.New("x")},
		{Index: 2, Status: StatusCancelled},
	}}

	err := summary.Err()
	require.ErrorIs(t, err, ErrCancelled)
	require.Contains(t, err.Error(), "1 of 2 files failed to convert")
	require.Contains(t, err.Error(), "1 of 2 files not started")
}
