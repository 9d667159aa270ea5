// Package obslog provides the library's ambient structured logging,
// configured from environment variables the same way the rest of this
// codebase's ancestry configures its logger, but backed by zap rather than
// log/slog.
package obslog

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.SugaredLogger. Its Debugf and Warnf add a "scriptable:"
// message prefix so log lines read consistently regardless of destination or
// encoder; the other embedded SugaredLogger methods log without it.
type Logger struct {
	*zap.SugaredLogger
}

var (
	once          sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide logger, built once from environment
// variables:
//
//   - SCRIPTABLE_DEBUG=1 raises the level to debug.
//   - SCRIPTABLE_LOG_JSON=1 selects the JSON encoder (otherwise a console
//     encoder is used).
//   - SCRIPTABLE_LOG_DEST selects "stderr" (default), "stdout", or
//     "file:<path>" (appended to; stderr if it cannot be opened).
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// New builds a fresh Logger from the current environment. Exposed
// separately from Default so tests and embedders can construct an isolated
// instance instead of sharing process-wide state.
func New() *Logger {
	level := zapcore.InfoLevel
	if os.Getenv("SCRIPTABLE_DEBUG") == "1" {
		level = zapcore.DebugLevel
	}

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if os.Getenv("SCRIPTABLE_LOG_JSON") == "1" {
		encCfg = zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := destinationSink(os.Getenv("SCRIPTABLE_LOG_DEST"))
	core := zapcore.NewCore(encoder, sink, level)
	base := zap.New(core).With(zap.String("component", "scriptable"))
	return &Logger{SugaredLogger: base.Sugar()}
}

func destinationSink(dest string) zapcore.WriteSyncer {
	switch {
	case dest == "" || dest == "stderr":
		return zapcore.Lock(os.Stderr)
	case dest == "stdout":
		return zapcore.Lock(os.Stdout)
	case strings.HasPrefix(dest, "file:"):
		path := strings.TrimPrefix(dest, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zapcore.Lock(os.Stderr)
		}
		return zapcore.Lock(f)
	default:
		return zapcore.Lock(os.Stderr)
	}
}

// Debugf logs at debug level with a "scriptable:" prefix for readability in
// mixed-output terminals.
func (l *Logger) Debugf(format string, args ...any) {
	l.SugaredLogger.Debugf("scriptable: "+format, args...)
}

// Warnf logs at warn level with the same prefix convention.
func (l *Logger) Warnf(format string, args ...any) {
	l.SugaredLogger.Warnf("scriptable: "+format, args...)
}
