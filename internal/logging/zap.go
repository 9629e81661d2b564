package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Verbose bool
	JSON    bool
	// Color enables ANSI level colors in console output.
	Color bool
	// Writer defaults to stderr.
	Writer io.Writer
}

func New(opts Options) *zap.Logger {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var encoder zapcore.Encoder
	if opts.JSON {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.CallerKey = ""
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if opts.Color {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if opts.Writer != nil {
		sink = zapcore.AddSync(opts.Writer)
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level))

	zapOpts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if opts.Verbose {
		zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, zapOpts...)
}
