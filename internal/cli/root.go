package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fmueller/srt2vtt/internal/batch"
	"github.com/fmueller/srt2vtt/internal/config"
	"github.com/fmueller/srt2vtt/internal/convert"
	"github.com/fmueller/srt2vtt/internal/logging"
	"github.com/fmueller/srt2vtt/internal/version"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	summary    bool
	offset     string
	configPath string

	logger *zap.Logger
	out    io.Writer
	errOut io.Writer

	convertFn  batch.ConvertFunc
	loadConfig func(path string) (config.Config, string, bool, error)
	isTerminal func() bool
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&appState{
		offset:     "0",
		summary:    true,
		convertFn:  convert.Convert,
		loadConfig: config.Load,
	})
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "srt2vtt [flags] <file.srt>...",
		Short: "Convert SubRip subtitles to WebVTT",
		Long: `srt2vtt converts SubRip (.srt) subtitle files to WebVTT (.vtt).

Each input is written next to itself with a .vtt extension. Numeric cue
index lines are dropped and cue timings are rewritten in WebVTT form,
optionally shifted by --offset. Times shifted below zero clamp to
00:00:00.000.`,
		Example: `  srt2vtt movie.srt
  srt2vtt --offset -2000 season1/*.srt
  srt2vtt --offset +00:00:01.500 episode.srt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.out = cmd.OutOrStdout()
			return app.run(cmd.Context(), args)
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindConversionFlags(cmd, app)

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindConversionFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.offset, "offset", app.offset, "Shift all cue times: milliseconds (-2000), [+-]HH:MM:SS.mmm or a duration (1.5s)")
	cmd.Flags().StringVar(&app.configPath, "config", app.configPath, "Path to a TOML config file with flag defaults")
	cmd.Flags().BoolVar(&app.summary, "summary", app.summary, "Print a table of per-file results when done")
}

// prepare applies config file defaults to every flag the user did not set,
// then builds the logger.
func (a *appState) prepare(cmd *cobra.Command) error {
	loadConfig := a.loadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}

	cfg, cfgPath, found, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("offset") {
		a.offset = cfg.Offset
	}
	if !flags.Changed("no-progress") {
		a.noProgress = cfg.NoProgress
	}
	if !flags.Changed("verbose") {
		a.verbose = cfg.Verbose
	}
	if !flags.Changed("json") {
		a.jsonLogs = cfg.JSONLogs
	}
	if !flags.Changed("summary") {
		a.summary = cfg.Summary
	}

	a.errOut = cmd.ErrOrStderr()
	a.logger = logging.New(logging.Options{
		Verbose: a.verbose,
		JSON:    a.jsonLogs,
		Color:   !a.jsonLogs && a.terminal(),
		Writer:  a.errOut,
	})
	if found {
		a.log().Debug("loaded config", zap.String("path", cfgPath))
	}
	return nil
}

func (a *appState) run(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	offsetMs, err := convert.ParseOffset(a.offset)
	if err != nil {
		return fmt.Errorf("parse --offset: %w", err)
	}

	convertFn := a.convertFn
	if convertFn == nil {
		convertFn = convert.Convert
	}

	a.log().Info("converting", zap.Int("files", len(paths)), zap.Int64("offset_ms", offsetMs))

	progress := startFileProgress(a.progressEnabled(), a.errWriter(), len(paths))
	runner := batch.Runner{
		Convert: convertFn,
		Logger:  a.log(),
		OnResult: func(r batch.Result) {
			progress.Step(filepath.Base(r.Path))
			fmt.Fprintf(a.outWriter(), "%d. %q - %s\n", r.Index, filepath.Base(r.Path), r.Message())
		},
	}
	summary := runner.Run(ctx, paths, offsetMs)
	progress.Finish()

	if summary.Cancelled() > 0 {
		fmt.Fprintln(a.outWriter(), "PROCESS CANCELLED")
	}
	if a.summary {
		fmt.Fprintln(a.outWriter(), renderSummary(summary))
	}

	a.log().Info("conversion finished",
		zap.Int("done", summary.Done()),
		zap.Int("failed", summary.Failed()),
		zap.Int("cancelled", summary.Cancelled()),
	)
	return summary.Err()
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) terminal() bool {
	if a.isTerminal != nil {
		return a.isTerminal()
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return a.terminal()
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *appState) errWriter() io.Writer {
	if a.errOut == nil {
		return os.Stderr
	}
	return a.errOut
}
