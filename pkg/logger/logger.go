package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// L returns the global logger, or nil before initialisation.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger installs l as the process logger for zap and otelzap.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// GetLogger returns the global logger, building the console fallback if
// nothing has been installed yet.
func GetLogger() *zap.Logger {
	if l := L(); l != nil {
		return l
	}
	fallback := NewFallbackLogger(zapcore.AddSync(os.Stderr))
	SetLogger(fallback)
	return fallback
}

// NewFallbackLogger logs human-readable lines to w.
func NewFallbackLogger(w zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		w,
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// InitializeWithFallback initialises the global logger at the level named
// by LOG_LEVEL.
func InitializeWithFallback() {
	Initialize(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// Initialize logs to stderr at level and, when a writable log path is
// found, also writes debug-level JSON lines to that file. Stdout is never
// used so the generated message can be piped.
func Initialize(level zapcore.Level) {
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}

	path, err := FindWritableLogPath()
	if err != nil {
		SetLogger(zap.New(console, opts...))
		return
	}

	writer, err := GetLogFileWriter(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Could not write to log file, logging to stderr only:", err)
		SetLogger(zap.New(console, opts...))
		return
	}

	core := zapcore.NewTee(
		console,
		zapcore.NewCore(zapcore.NewJSONEncoder(DefaultJSONEncoderConfig()), writer, zapcore.DebugLevel),
	)
	SetLogger(zap.New(core, opts...))
	L().Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_path", path))
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() {
	if l := L(); l != nil {
		_ = l.Sync()
	}
}
