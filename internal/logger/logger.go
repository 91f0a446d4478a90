// Package logger writes structured logs to a file so the terminal stays
// free for the TUI.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// DefaultLogPath is used when Init is never called.
const DefaultLogPath = "/tmp/rsync-tui-debug.log"

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar)
	logFile    *os.File
	mu         sync.Mutex
	logPath    string
	debug      bool
)

// SetDebug switches between debug and info level. Safe to call before Init.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
	levelVar.Set(currentLevel())
}

func currentLevel() slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Init opens the log file at path. Calling Init twice is a no-op; call
// Reset first to switch files.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if slogLogger != nil {
		return nil
	}
	return openLocked(path)
}

func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	attach(f)
	slogLogger.Info("logger initialized", "path", path, "pid", os.Getpid())
	return nil
}

func attach(w io.Writer) {
	levelVar.Set(currentLevel())
	slogLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// get returns the active logger, lazily opening DefaultLogPath. If that
// fails logs are discarded.
func get() *slog.Logger {
	if slogLogger == nil {
		if err := openLocked(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			attach(io.Discard)
		}
	}
	return slogLogger
}

// Path returns the file currently being written, or "" before first use.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func logf(level slog.Level, format string, args ...interface{}) {
	mu.Lock()
	l := get()
	mu.Unlock()

	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug writes a printf-style debug message.
func Debug(format string, args ...interface{}) { logf(slog.LevelDebug, format, args...) }

// Info writes a printf-style info message.
func Info(format string, args ...interface{}) { logf(slog.LevelInfo, format, args...) }

// Warn writes a printf-style warning.
func Warn(format string, args ...interface{}) { logf(slog.LevelWarn, format, args...) }

// Error writes a printf-style error message.
func Error(format string, args ...interface{}) { logf(slog.LevelError, format, args...) }

// WithComponent returns a logger tagged with the component name.
//
//	log := logger.WithComponent("transfer")
//	log.Info("job started", "job", id, "source", src)
func WithComponent(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return get().With(slog.String("component", component))
}

// WithJob returns a logger tagged with a transfer job id.
func WithJob(jobID string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return get().With(slog.String("component", "transfer"), slog.String("job", jobID))
}

// Close closes the log file. Later log calls reopen DefaultLogPath.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// Reset restores the initial state. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
	logPath = ""
	debug = false
	levelVar = new(slog.LevelVar)
}
