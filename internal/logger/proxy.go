package logger

import (
	"context"
	"io"

	"github.com/bqdriver/gobigquery/loginterface"
)

// Proxy delegates every call to the global logger, so that a logger captured at package
// initialization follows later SetLogger calls.
type Proxy struct{}

var _ loginterface.BQLogger = (*Proxy)(nil)

func (p *Proxy) Tracef(format string, args ...interface{}) {
	GetLogger().Tracef(format, args...)
}

func (p *Proxy) Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

func (p *Proxy) Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

func (p *Proxy) Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

func (p *Proxy) Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

func (p *Proxy) Fatalf(format string, args ...interface{}) {
	GetLogger().Fatalf(format, args...)
}

func (p *Proxy) Trace(msg string) {
	GetLogger().Trace(msg)
}

func (p *Proxy) Debug(msg string) {
	GetLogger().Debug(msg)
}

func (p *Proxy) Info(msg string) {
	GetLogger().Info(msg)
}

func (p *Proxy) Warn(msg string) {
	GetLogger().Warn(msg)
}

func (p *Proxy) Error(msg string) {
	GetLogger().Error(msg)
}

func (p *Proxy) Fatal(msg string) {
	GetLogger().Fatal(msg)
}

func (p *Proxy) WithField(key string, value interface{}) loginterface.LogEntry {
	return GetLogger().WithField(key, value)
}

func (p *Proxy) WithFields(fields map[string]any) loginterface.LogEntry {
	return GetLogger().WithFields(fields)
}

func (p *Proxy) WithContext(ctx context.Context) loginterface.LogEntry {
	return GetLogger().WithContext(ctx)
}

func (p *Proxy) SetLogLevel(level string) error {
	return GetLogger().SetLogLevel(level)
}

func (p *Proxy) GetLogLevel() string {
	return GetLogger().GetLogLevel()
}

func (p *Proxy) SetOutput(output io.Writer) {
	GetLogger().SetOutput(output)
}

// NewLoggerProxy creates a logger that delegates to the global logger.
func NewLoggerProxy() loginterface.BQLogger {
	return &Proxy{}
}
