package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	zapLogger    *zap.Logger
)

// Init builds the global zap logger with the given level and bridges it into
// slog so that both APIs write through the same core.
// Format "console" gives human-readable output, anything else JSON.
func Init(levelStr, format string) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(levelStr))
	invalidLevel := err != nil
	if invalidLevel {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.OutputPaths = []string{"stdout"}

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	zapLogger = base
	globalLogger = slog.New(zapslog.NewHandler(base.Core()))
	slog.SetDefault(globalLogger)
	mu.Unlock()

	if invalidLevel {
		Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
	return base, nil
}

// Zap returns the zap logger behind the global logger.
func Zap() *zap.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return zapLogger
}

func ensureInitialized() {
	mu.RLock()
	ready := globalLogger != nil
	mu.RUnlock()
	if ready {
		return
	}
	if _, err := Init("info", "json"); err != nil {
		// zap could not open stdout; fall back to a plain slog handler.
		mu.Lock()
		zapLogger = zap.NewNop()
		globalLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		mu.Unlock()
	}
}

func current() *slog.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func log(level slog.Level, msg string, args ...any) {
	l := current()
	ctx := context.Background()
	if l.Enabled(ctx, level) {
		l.Log(ctx, level, msg, args...)
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) { log(slog.LevelInfo, msg, args...) }

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) { log(slog.LevelWarn, msg, args...) }

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	current().Error(msg, args...)
	_ = Zap().Sync()
	os.Exit(1)
}
