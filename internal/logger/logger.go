// Package logger provides the global structured logger used by the CLI and the
// install pipeline. It is a thin wrapper around log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Fields is a type alias for log fields to make call sites cleaner.
type Fields map[string]interface{}

var (
	logger *slog.Logger

	// testOutput captures log output during tests.
	testOutput   io.Writer
	testOutputMu sync.Mutex
)

// SetTestOutput redirects log output for testing purposes.
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output.
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	return os.Stderr
}

// Init initializes the global logger at the given level. Unknown levels fall
// back to info.
func Init(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(getOutput(), &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// Get returns the configured logger instance.
func Get() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	Get().Info(msg, flatten(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	Get().Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	Get().Debug(msg, flatten(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	Get().Debug(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	Get().Warn(msg, flatten(fields...)...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	Get().Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	Get().Error(msg, flatten(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	Get().Error(fmt.Sprintf(format, args...))
}

// flatten merges field maps into the alternating key/value slice slog expects.
func flatten(fields ...Fields) []interface{} {
	attrs := []interface{}{}
	for _, field := range fields {
		for k, v := range field {
			attrs = append(attrs, k, v)
		}
	}
	return attrs
}
