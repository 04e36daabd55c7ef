package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Fields map[string]interface{}

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout)
)

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetOutput redirects all log output to w. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

// SetLevel parses a zerolog level name ("debug", "info", ...). Unknown names
// leave the level untouched.
func SetLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
}

func output(ev *zerolog.Event, msg string, fields Fields) {
	if fields != nil {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	ev.Msg(msg)
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields Fields) {
	output(current().Debug(), msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(current().Info(), msg, fields)
}

// Warn logs a warning. Used for non-fatal notifications such as damage clamps.
func Warn(msg string, fields Fields) {
	output(current().Warn(), msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(current().Error().Err(err), msg, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output(current().WithLevel(zerolog.FatalLevel).Err(err), msg, fields)
	os.Exit(1)
}
