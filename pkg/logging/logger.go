// Package logging provides the shared file logger for selwrite.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes structured, leveled messages to a rotating log file.
type Logger struct {
	logger  *log.Logger
	verbose bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton logger backed by a rotating file in the
// selwrite data directory. Passing true enables debug messages; once
// enabled, verbosity stays on for the life of the process.
func GetLogger(verbose bool) *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(DataDir(), "selwrite.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	if verbose {
		globalLogger.verbose = true
	}
	return globalLogger
}

// DataDir returns the per-user selwrite data directory, creating it if
// needed. Falls back to the working directory when no home is available.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".selwrite"
	}
	dir := filepath.Join(home, ".selwrite")
	_ = os.MkdirAll(dir, 0755)
	return dir
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if logFile, ok := l.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Debug logs a message only when verbose mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.logger.Printf("[DEBUG] "+format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Printf("[INFO] "+format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger.Printf("[WARN] "+format, args...)
}

// Error logs an error message and echoes it to stderr so failures are
// visible even when nobody is tailing the log file.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
