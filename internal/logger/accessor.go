package logger

import (
	"errors"
	"sync"

	"github.com/bqdriver/gobigquery/loginterface"
)

// The global logger lets internal packages log without importing the root package.
var (
	loggerAccessorMu sync.Mutex
	globalLogger     loginterface.BQLogger = newLogrusLogger()
)

// GetLogger returns the global logger.
func GetLogger() loginterface.BQLogger {
	loggerAccessorMu.Lock()
	defer loggerAccessorMu.Unlock()

	return globalLogger
}

// SetLogger replaces the global logger. A Proxy is rejected since it would delegate to itself.
func SetLogger(providedLogger BQLogger) error {
	if providedLogger == nil {
		return errors.New("cannot set a nil logger")
	}
	if _, isProxy := providedLogger.(*Proxy); isProxy {
		return errors.New("cannot set Proxy as the global logger - it would create infinite recursion")
	}
	loggerAccessorMu.Lock()
	defer loggerAccessorMu.Unlock()

	globalLogger = providedLogger
	return nil
}

// CreateDefaultLogger returns a new logrus backed logger writing text to stderr at the error
// level. It does not touch the global logger.
func CreateDefaultLogger() loginterface.BQLogger {
	return newLogrusLogger()
}
