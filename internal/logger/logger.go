package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/carconsole/internal/errors"
	"github.com/rs/zerolog"
)

var (
	log       = zerolog.New(os.Stderr).With().Timestamp().Logger()
	nopLogger = zerolog.Nop()
)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the logger with the given level name ("debug", "info",
// "warning", "error"). Timestamps are dropped when running under a service
// manager, which adds its own.
func Init(level string, isService bool) error {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	return InitWithWriter(output, level)
}

// InitWithWriter initializes the logger writing to w.
func InitWithWriter(w io.Writer, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	log = zerolog.New(w).With().Timestamp().Logger()
	SetLogLevel(lvl)

	return nil
}

// ParseLevel maps a configured level name to a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New(errors.ErrInvalidLogLevel).WithData(level)
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Fatal().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// componentLogger implements Logger, tagging every event with a component name
type componentLogger struct {
	component string
	nop       bool
}

// New returns a Logger that tags events with component
func New(component string) Logger {
	return &componentLogger{component: component}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return &componentLogger{nop: true}
}

func (l *componentLogger) event(level zerolog.Level) *LogEvent {
	if l.nop {
		return &LogEvent{nopLogger.WithLevel(level)}
	}
	return &LogEvent{log.WithLevel(level).Str("component", l.component)}
}

func (l *componentLogger) Debug() *LogEvent { return l.event(zerolog.DebugLevel) }
func (l *componentLogger) Info() *LogEvent  { return l.event(zerolog.InfoLevel) }
func (l *componentLogger) Warn() *LogEvent  { return l.event(zerolog.WarnLevel) }
func (l *componentLogger) Error() *LogEvent { return l.event(zerolog.ErrorLevel) }

func (l *componentLogger) ErrorWithCode(err errors.Error) *LogEvent {
	e := l.event(zerolog.ErrorLevel)
	return &LogEvent{e.Event.
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

func (l *componentLogger) ErrorWithContext(err errors.Error, component, operation string) *LogEvent {
	e := l.ErrorWithCode(err)
	return &LogEvent{e.Event.Str("source", component).Str("operation", operation)}
}
