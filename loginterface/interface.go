// Package loginterface defines the logging interface of gobigquery.
// To plug in a custom logger, implement BQLogger and pass it to gobigquery.SetLogger.
package loginterface

import (
	"context"
	"io"

	"github.com/bqdriver/gobigquery/bqlog"
)

// ClientLogContextHook is a client-defined hook that can be used to insert log
// fields based on the Context.
type ClientLogContextHook func(context.Context) string

// Level is the severity of a log message.
type Level = bqlog.Level

// LogEntry allows for logging using a snapshot of field values.
// No implementation-specific logging details should be placed into this interface.
type LogEntry interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	Trace(msg string)
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
}

// BQLogger abstracts away the underlying logging mechanism.
type BQLogger interface {
	LogEntry
	WithField(key string, value interface{}) LogEntry
	WithFields(fields map[string]any) LogEntry
	WithContext(ctx context.Context) LogEntry

	SetLogLevel(level string) error
	GetLogLevel() string
	SetOutput(output io.Writer)
}
