package log

import (
	"errors"
	"strings"
)

// Level is the severity of a log entry.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ErrInvalidLevel is returned when parsing an unknown level string.
var ErrInvalidLevel = errors.New("invalid log level")

var levelsByName = map[string]Level{
	"TRACE":   Trace,
	"DEBUG":   Debug,
	"INFO":    Info,
	"WARN":    Warn,
	"WARNING": Warn,
	"ERROR":   Error,
	"FATAL":   Fatal,
}

// ParseLevel parses a string into a Level, case-insensitively.
// Unknown strings return Info and ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	if level, ok := levelsByName[strings.ToUpper(s)]; ok {
		return level, nil
	}
	return Info, ErrInvalidLevel
}

// Enables reports whether a logger set to l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l
}
