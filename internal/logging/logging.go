// Package logging builds the structured logger used for run diagnostics.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's format and verbosity.
type Options struct {
	Verbose bool      // debug level instead of warn (console) or info (JSON)
	JSON    bool      // production JSON encoding instead of console
	Output  io.Writer // defaults to stderr
}

// New returns a logger for opts. Console output starts at warn level.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var (
		enc   zapcore.Encoder
		level zapcore.Level
	)
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
		level = zapcore.InfoLevel
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.WarnLevel
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}
