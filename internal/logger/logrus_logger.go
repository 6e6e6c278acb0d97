package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bqdriver/gobigquery/bqlog"
	"github.com/bqdriver/gobigquery/loginterface"
)

// logrusLogger is the default BQLogger.
type logrusLogger struct {
	inner *logrus.Logger
}

var _ loginterface.BQLogger = (*logrusLogger)(nil)

func newLogrusLogger() *logrusLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	l.SetLevel(logrus.ErrorLevel)
	return &logrusLogger{inner: l}
}

// toLogrusLevel maps a level to logrus. LevelOff maps to panic, the quietest logrus level.
func toLogrusLevel(level bqlog.Level) logrus.Level {
	switch level {
	case bqlog.LevelTrace:
		return logrus.TraceLevel
	case bqlog.LevelDebug:
		return logrus.DebugLevel
	case bqlog.LevelInfo:
		return logrus.InfoLevel
	case bqlog.LevelWarn:
		return logrus.WarnLevel
	case bqlog.LevelError:
		return logrus.ErrorLevel
	case bqlog.LevelFatal:
		return logrus.FatalLevel
	}
	return logrus.PanicLevel
}

func fromLogrusLevel(level logrus.Level) bqlog.Level {
	switch level {
	case logrus.TraceLevel:
		return bqlog.LevelTrace
	case logrus.DebugLevel:
		return bqlog.LevelDebug
	case logrus.InfoLevel:
		return bqlog.LevelInfo
	case logrus.WarnLevel:
		return bqlog.LevelWarn
	case logrus.ErrorLevel:
		return bqlog.LevelError
	case logrus.FatalLevel:
		return bqlog.LevelFatal
	}
	return bqlog.LevelOff
}

func (l *logrusLogger) SetLogLevel(level string) error {
	lvl, err := bqlog.ParseLevel(level)
	if err != nil {
		return err
	}
	l.inner.SetLevel(toLogrusLevel(lvl))
	return nil
}

func (l *logrusLogger) GetLogLevel() string {
	return fromLogrusLevel(l.inner.GetLevel()).String()
}

func (l *logrusLogger) SetOutput(output io.Writer) {
	l.inner.SetOutput(output)
}

func (l *logrusLogger) WithField(key string, value interface{}) loginterface.LogEntry {
	return &logrusEntry{inner: l.inner.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields map[string]any) loginterface.LogEntry {
	return &logrusEntry{inner: l.inner.WithFields(fields)}
}

func (l *logrusLogger) WithContext(ctx context.Context) loginterface.LogEntry {
	return &logrusEntry{inner: l.inner.WithContext(ctx).WithFields(extractContextFields(ctx))}
}

func (l *logrusLogger) entry() *logrusEntry {
	return &logrusEntry{inner: logrus.NewEntry(l.inner)}
}

func (l *logrusLogger) Tracef(format string, args ...interface{}) { l.entry().Tracef(format, args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry().Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry().Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry().Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry().Errorf(format, args...) }
func (l *logrusLogger) Fatalf(format string, args ...interface{}) { l.entry().Fatalf(format, args...) }

func (l *logrusLogger) Trace(msg string) { l.entry().Trace(msg) }
func (l *logrusLogger) Debug(msg string) { l.entry().Debug(msg) }
func (l *logrusLogger) Info(msg string)  { l.entry().Info(msg) }
func (l *logrusLogger) Warn(msg string)  { l.entry().Warn(msg) }
func (l *logrusLogger) Error(msg string) { l.entry().Error(msg) }
func (l *logrusLogger) Fatal(msg string) { l.entry().Fatal(msg) }

// logrusEntry adapts *logrus.Entry, whose unformatted methods are variadic, to LogEntry.
type logrusEntry struct {
	inner *logrus.Entry
}

func (e *logrusEntry) Tracef(format string, args ...interface{}) { e.inner.Tracef(format, args...) }
func (e *logrusEntry) Debugf(format string, args ...interface{}) { e.inner.Debugf(format, args...) }
func (e *logrusEntry) Infof(format string, args ...interface{})  { e.inner.Infof(format, args...) }
func (e *logrusEntry) Warnf(format string, args ...interface{})  { e.inner.Warnf(format, args...) }
func (e *logrusEntry) Errorf(format string, args ...interface{}) { e.inner.Errorf(format, args...) }
func (e *logrusEntry) Fatalf(format string, args ...interface{}) { e.inner.Fatalf(format, args...) }

func (e *logrusEntry) Trace(msg string) { e.inner.Trace(msg) }
func (e *logrusEntry) Debug(msg string) { e.inner.Debug(msg) }
func (e *logrusEntry) Info(msg string)  { e.inner.Info(msg) }
func (e *logrusEntry) Warn(msg string)  { e.inner.Warn(msg) }
func (e *logrusEntry) Error(msg string) { e.inner.Error(msg) }
func (e *logrusEntry) Fatal(msg string) { e.inner.Fatal(msg) }
