package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogrus builds a logrus.Logger for the given level and format ("json" or
// "text"). Unknown levels fall back to info with a warning; a nil out keeps
// stderr.
func NewLogrus(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// LogrusAdapter implements Logger on top of a logrus entry, so derived
// loggers carry their accumulated fields.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter returns a Logger writing to stderr.
//
// Parameters:
//   - level: "trace", "debug", "info", "warn" or "error", any case
//   - format: "json" or "text"
func NewLogrusAdapter(level, format string) Logger {
	return NewLogrusAdapterWithOutput(level, format, nil)
}

// NewLogrusAdapterWithOutput is NewLogrusAdapter writing to out.
func NewLogrusAdapterWithOutput(level, format string, out io.Writer) Logger {
	return NewLogrusAdapterFromLogger(NewLogrus(level, format, out))
}

// NewLogrusAdapterFromLogger wraps an existing logger. Nil gets a default one.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

func (l *LogrusAdapter) at(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(convertFields(fields))
}

// Debug implements Logger.
func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.at(fields).Debug(msg) }

// Info implements Logger.
func (l *LogrusAdapter) Info(msg string, fields ...Field) { l.at(fields).Info(msg) }

// Warn implements Logger.
func (l *LogrusAdapter) Warn(msg string, fields ...Field) { l.at(fields).Warn(msg) }

// Error implements Logger.
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.at(fields).Error(msg) }

// Fatal logs and exits the process.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) { l.at(fields).Fatal(msg) }

// Fatalf logs a formatted message and exits the process.
func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) { l.entry.Fatalf(msg, args...) }

// WithError implements Logger.
func (l *LogrusAdapter) WithError(err error) Logger {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

// WithField implements Logger.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields implements Logger.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return &LogrusAdapter{entry: l.at(fields)}
}

func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
