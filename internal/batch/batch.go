// Package batch drives the converter over a list of files, one at a time,
// recording a per-file outcome and honouring cancellation between files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrCancelled is reported when files were skipped because the batch was
// cancelled.
var ErrCancelled = errors.New("conversion cancelled")

type Status string

const (
	StatusDone      Status = "done"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// ConvertFunc converts one file and returns the path it wrote.
type ConvertFunc func(path string, offsetMs int64) (string, error)

type Result struct {
	// Index is the 1-based position of Path in the batch.
	Index  int
	Path   string
	Output string
	Status Status
	Err    error
}

// Message renders the outcome the way it is reported to the user.
func (r Result) Message() string {
	switch r.Status {
	case StatusDone:
		return "Done"
	case StatusError:
		if r.Err == nil {
			return "ERROR"
		}
		return "ERROR: " + r.Err.Error()
	default:
		return "Cancelled"
	}
}

type Summary struct {
	Results []Result
}

func (s Summary) count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func (s Summary) Done() int      { return s.count(StatusDone) }
func (s Summary) Failed() int    { return s.count(StatusError) }
func (s Summary) Cancelled() int { return s.count(StatusCancelled) }

// Err is nil when every file converted.
func (s Summary) Err() error {
	total := len(s.Results)
	var errs []error
	if failed := s.Failed(); failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d files failed to convert", failed, total))
	}
	if cancelled := s.Cancelled(); cancelled > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d files not started", ErrCancelled, cancelled, total))
	}
	return errors.Join(errs...)
}

type Runner struct {
	Convert ConvertFunc
	Logger  *zap.Logger
	// OnResult, if set, is called after each file that was attempted.
	// Files skipped by cancellation are not reported through it.
	OnResult func(Result)
}

// Run converts paths in order. ctx is consulted before each file starts; a
// file already being converted always runs to completion.
func (r *Runner) Run(ctx context.Context, paths []string, offsetMs int64) Summary {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, 0, len(paths))
	for i, path := range paths {
		res := Result{Index: i + 1, Path: path}

		if ctx.Err() != nil {
			res.Status = StatusCancelled
			results = append(results, res)
			continue
		}

		started := time.Now()
		output, err := r.convertOne(path, offsetMs)
		if err != nil {
			res.Status = StatusError
			res.Err = err
			logger.Warn("conversion failed", zap.String("file", path), zap.Error(err))
		} else {
			res.Status = StatusDone
			res.Output = output
			logger.Debug("converted",
				zap.String("file", path),
				zap.String("output", output),
				zap.Int64("offset_ms", offsetMs),
				zap.Duration("elapsed", time.Since(started)),
			)
		}

		results = append(results, res)
		if r.OnResult != nil {
			r.OnResult(res)
		}
	}

	summary := Summary{Results: results}
	if skipped := summary.Cancelled(); skipped > 0 {
		logger.Info("batch cancelled", zap.Int("skipped", skipped), zap.Int("total", len(paths)))
	}
	return summary
}

func (r *Runner) convertOne(path string, offsetMs int64) (output string, err error) {
	if r.Convert == nil {
		return "", errors.New("no converter configured")
	}

	// One file misbehaving must not take the rest of the batch down.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("converter panic: %v", p)
		}
	}()

	return r.Convert(path, offsetMs)
}
