package cli

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// fileProgress counts converted files. The zero value draws nothing.
type fileProgress struct {
	bar *progressbar.ProgressBar
}

func startFileProgress(enabled bool, w io.Writer, total int) *fileProgress {
	if !enabled || total <= 0 {
		return &fileProgress{}
	}

	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &fileProgress{bar: bar}
}

func (p *fileProgress) Step(name string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(name)
	_ = p.bar.Add(1)
}

func (p *fileProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
