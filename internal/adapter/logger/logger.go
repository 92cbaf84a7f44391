package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type LoggerAdapter struct {
	log *logrus.Logger
}

// NewLoggerAdapter writes JSON in production and text elsewhere. An unknown
// level falls back to info.
func NewLoggerAdapter(env, level string) *LoggerAdapter {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return &LoggerAdapter{log: log}
}

// NewWithLogger wraps an existing logrus logger, e.g. one writing to a test buffer.
func NewWithLogger(log *logrus.Logger) *LoggerAdapter {
	return &LoggerAdapter{log: log}
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Debug(msg)
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Info(msg)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Warn(msg)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Error(msg)
}
