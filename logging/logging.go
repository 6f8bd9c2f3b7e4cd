package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	logger  = newLogger(os.Stderr, logrus.InfoLevel)
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetupLogger sends log output to logFilePath at debug level
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logger = newLogger(f, logrus.DebugLevel)
	logger.Debugf("--- imagediff debug log started at %s ---", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// SetOutput redirects log output, mostly for tests
func SetOutput(out io.Writer, level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()

	logger = newLogger(out, level)
}

// CloseLogger closes the log file and restores stderr logging
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Debugf("--- imagediff debug log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
	}
	logger = newLogger(os.Stderr, logrus.InfoLevel)
	isSetup = false
}

// Logger returns the current logger
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	return logger
}

// WithFields returns an entry carrying fields, for structured debug output
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger().WithFields(fields)
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	Logger().Infof(format, args...)
}

// DebugLog logs a message if debug logging is enabled
func DebugLog(format string, args ...interface{}) {
	Logger().Debugf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	Logger().Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	Logger().Warnf(format, args...)
}
