// Package logger builds the zap logger shared by nodectl's components.
//
// Command results go to stdout; log lines go to the writer given here
// (stderr from the command line) so the two never interleave.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Output  io.Writer // Destination for log lines
	Verbose bool      // Debug level when set, warn level otherwise
}

// New returns a console-encoded logger writing to opts.Output.
// A nil Output returns a no-op logger.
func New(opts Options) *zap.Logger {
	if opts.Output == nil {
		return zap.NewNop()
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(opts.Output)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Named("nodectl")
}
