// Package ilog wraps zap into the shape the interpreter's ambient
// logging needs (§10.1): one development-style console logger by
// default, with GC cycles and evaluator tracing gated behind their own
// config keys rather than separate log levels.
package ilog

import (
	"go.uber.org/zap"
)

// Logger is the interpreter-wide structured logger.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a console-encoded, human-readable logger at debug level
// (zap's development default, so the Debug-level Eval lines show) —
// the same encoder family the rest of the pack's services reach for
// when stdout is a terminal (rcornwell-S370, zboralski-galago).
func New() *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		// A broken logging config shouldn't crash the interpreter; fall
		// back to a no-op logger.
		z = zap.NewNop()
	}
	return &Logger{z: z.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger { return &Logger{z: zap.NewNop().Sugar()} }

func (l *Logger) GC(freed, live int) {
	l.z.Infow("gc cycle", "freed", freed, "live", live)
}

func (l *Logger) Eval(form string) {
	l.z.Debugw("eval", "form", form)
}

func (l *Logger) Errorw(msg string, keysAndValues ...any) {
	l.z.Errorw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
