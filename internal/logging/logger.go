package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger at the given level name. An unknown level falls back
// to info. Loggers are always constructed and passed in, never taken from a
// package global.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// Silent returns a logger that discards everything, for tests.
func Silent() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
