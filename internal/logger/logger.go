package logger

import (
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the process logger. Verbose enables debug output.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	Set(l)
	LogDebug("Logger initialized, verbose=%v", verbose)
	return nil
}

// Set replaces the process logger, mainly for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// LogPanic logs a panic with stack trace
func LogPanic(r interface{}) {
	current().Errorw("panic recovered", "panic", r, "stack", string(debug.Stack()))
}
