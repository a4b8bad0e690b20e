package pkg

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debugf(format string, a ...any)
	Infof(format string, a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)
}

type LogLevel uint32

const (
	LogLevelDebug = LogLevel(0)
	LogLevelInfo  = LogLevel(1)
	LogLevelWarn  = LogLevel(2)
	LogLevelError = LogLevel(3)
)

// The game server owns stdout, so the default loggers write to stderr.
var DefaultLogger Logger = NewZerologLogger(newConsoleLogger(LogLevelInfo))

var DebugLogger Logger = NewZerologLogger(newConsoleLogger(LogLevelDebug))

// ParseLogLevel accepts debug, info, warn(ing) and error, case-insensitive.
func ParseLogLevel(raw string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

// NewLogger returns a console logger on stderr filtered at level.
func NewLogger(level LogLevel) Logger {
	return NewZerologLogger(newConsoleLogger(level))
}

func newConsoleLogger(level LogLevel) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level.zerologLevel()).With().Timestamp().Logger()
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to Logger.
func NewZerologLogger(log zerolog.Logger) Logger {
	return &zerologLogger{log: log}
}

func (l *zerologLogger) Debugf(format string, a ...any) {
	l.log.Debug().Msgf(format, a...)
}

func (l *zerologLogger) Infof(format string, a ...any) {
	l.log.Info().Msgf(format, a...)
}

func (l *zerologLogger) Warnf(format string, a ...any) {
	l.log.Warn().Msgf(format, a...)
}

func (l *zerologLogger) Errorf(format string, a ...any) {
	l.log.Error().Msgf(format, a...)
}
