package gobigquery

import (
	loggerinternal "github.com/bqdriver/gobigquery/internal/logger"
	"github.com/bqdriver/gobigquery/loginterface"
)

// Re-export types from loginterface package
type (
	// ClientLogContextHook is a client-defined hook that can be used to insert log
	// fields based on the Context.
	ClientLogContextHook = loginterface.ClientLogContextHook

	// LogEntry allows for logging using a snapshot of field values.
	LogEntry = loginterface.LogEntry

	// BQLogger is the logger interface of the library. The default implementation writes
	// through logrus at the error level.
	BQLogger = loginterface.BQLogger
)

// SetLogKeys sets the context keys whose values are written to logs when logger.WithContext
// is used. This function is thread-safe and can be called at runtime.
func SetLogKeys(keys ...interface{}) {
	loggerinternal.SetLogKeys(keys)
}

// RegisterLogContextHook registers a hook that can be used to extract fields
// from the Context and associated with log messages using the provided key.
// This function is thread-safe and can be called at runtime.
func RegisterLogContextHook(contextKey string, ctxExtractor ClientLogContextHook) {
	loggerinternal.RegisterLogContextHook(contextKey, ctxExtractor)
}

// logger delegates to the global logger, so that SetLogger takes effect everywhere.
var logger BQLogger = loggerinternal.NewLoggerProxy()

// SetLogger replaces the logger used by the library.
func SetLogger(inLogger BQLogger) error {
	return loggerinternal.SetLogger(inLogger)
}

// GetLogger returns the logger used by the library.
func GetLogger() BQLogger {
	return logger
}

// SetLogLevel sets the level of the current logger: trace, debug, info, warn, error, fatal or off.
func SetLogLevel(level string) error {
	return logger.SetLogLevel(level)
}

// CreateDefaultLogger creates a new logger with the default configuration. It does not
// change the logger used by the library.
func CreateDefaultLogger() BQLogger {
	return loggerinternal.CreateDefaultLogger()
}
