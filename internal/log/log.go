// Package log is a thin key-value logging facade over logrus. Everything
// goes to stderr so that stdout stays reserved for the report itself.
package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// SetLevel sets the minimum level from a string. Unknown values fall back
// to info rather than aborting.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

func Debug(msg string, kv ...any) {
	logger.WithFields(fields(kv)).Debug(msg)
}

func Info(msg string, kv ...any) {
	logger.WithFields(fields(kv)).Info(msg)
}

func Warn(msg string, kv ...any) {
	logger.WithFields(fields(kv)).Warn(msg)
}

// Error logs msg with the error prepended to the key-value list.
func Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	logger.WithFields(fields(extended)).Error(msg)
}

// fields converts a flat key, value, key, value list into logrus fields.
// Non-string keys and a trailing odd value are dropped.
func fields(kv []any) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out[key] = kv[i+1]
	}
	return out
}
