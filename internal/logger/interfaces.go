package logger

import (
	"github.com/bqdriver/gobigquery/loginterface"
)

// Re-export types from loginterface package to avoid circular dependencies
// while maintaining a clean internal API
type (
	LogEntry             = loginterface.LogEntry
	BQLogger             = loginterface.BQLogger
	ClientLogContextHook = loginterface.ClientLogContextHook
)
