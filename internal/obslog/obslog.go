// Package obslog wires structured logging across the compiler, executor, and
// CLI. It wraps zap rather than exposing *zap.Logger directly so call sites
// depend on a small interface instead of the full zap API.
package obslog

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured-logging surface used throughout graphframe.
type Logger interface {
	Debugz(msg string, fields ...zap.Field)
	Infoz(msg string, fields ...zap.Field)
	Warnz(msg string, fields ...zap.Field)
	Errorz(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Debugz(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Infoz(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warnz(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Errorz(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) With(fields ...zap.Field) Logger        { return &zapLogger{z: l.z.With(fields...)} }
func (l *zapLogger) Sync() error                            { return l.z.Sync() }

// New builds a Logger. In a TTY it uses zap's human-readable console
// encoder (matching how a developer running graphctl interactively expects
// output); otherwise — piped output, CI, a service — it emits JSON so log
// aggregators can parse it. debug enables debug-level output in either case.
func New(debug bool) (Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if isTerminal(os.Stderr) {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return &zapLogger{z: zap.New(core)}, nil
}

// Noop returns a Logger that discards everything, for tests and embedders
// that don't want graphframe's logs interleaved with their own.
func Noop() Logger {
	return &zapLogger{z: zap.NewNop()}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
