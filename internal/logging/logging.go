// Package logging wires a process-wide zerolog logger that writes human
// readable lines to the console and JSON records to an optional log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger(os.Stderr, nil)
	debug   bool

	// consoleOut is swapped in tests.
	consoleOut io.Writer = os.Stderr
)

func newLogger(console io.Writer, file io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if file != nil {
		writers = append(writers, file)
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(level())
}

func level() zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Init (re)opens the log file at logPath in append mode and routes all
// subsequent events to it and to the console. An empty path logs to the
// console only.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if strings.TrimSpace(logPath) == "" {
		logger = newLogger(consoleOut, nil)
		return nil
	}
	if dir := filepath.Dir(logPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", logPath, err)
	}
	logFile = file
	logger = newLogger(consoleOut, logFile)
	return nil
}

// Close flushes and closes the log file, falling back to console logging.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(consoleOut, nil)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles debug level output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
	logger = logger.Level(level())
}

// Logger returns the current logger.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvent writes an informational message.
func LogEvent(format string, args ...any) {
	l := Logger()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

// LogDebug writes a message that only appears with debug enabled.
func LogDebug(format string, args ...any) {
	l := Logger()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// LogError writes err with a context message.
func LogError(err error, format string, args ...any) {
	l := Logger()
	l.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}

// LogRequest records one served HTTP request. Server errors log at error
// level and client errors at warn level.
func LogRequest(method, path string, status int, latency time.Duration) {
	l := Logger()
	var ev *zerolog.Event
	switch {
	case status >= 500:
		ev = l.Error()
	case status >= 400:
		ev = l.Warn()
	default:
		ev = l.Info()
	}
	ev.Str("method", strings.ToUpper(strings.TrimSpace(method))).
		Str("path", path).
		Int("status", status).
		Dur("latency", latency).
		Msg("request")
}
