// Package bqlog defines the log levels understood by the gobigquery logger.
package bqlog

import (
	"fmt"
	"math"
	"strings"
)

// Level represents the severity of a log message.
type Level int

// Levels in increasing severity. LevelOff disables logging.
const (
	LevelTrace = Level(-8)
	LevelDebug = Level(-4)
	LevelInfo  = Level(0)
	LevelWarn  = Level(4)
	LevelError = Level(8)
	LevelFatal = Level(12)
	LevelOff   = Level(math.MaxInt)
)

// ParseLevel converts a level name in any case to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	case "OFF":
		return LevelOff, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// String returns the upper case name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}
