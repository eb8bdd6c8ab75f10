// Package logger provides leveled logging over the standard log package.
// Computation packages stay silent; ingestion and persistence paths report
// through here.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags),
}

// Init sets the default logger's level from a string ("debug", "info",
// "warn", "error"). Unknown values fall back to info.
func Init(level string) {
	l := InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = DebugLevel
	case "info":
		l = InfoLevel
	case "warn":
		l = WarnLevel
	case "error":
		l = ErrorLevel
	}
	defaultLogger = &Logger{
		level:  l,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...interface{}) {
	defaultLogger.output(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel.
func Info(format string, args ...interface{}) {
	defaultLogger.output(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel.
func Warn(format string, args ...interface{}) {
	defaultLogger.output(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel.
func Error(format string, args ...interface{}) {
	defaultLogger.output(ErrorLevel, "[ERROR] ", format, args...)
}

func (l *Logger) output(level Level, prefix, format string, args ...interface{}) {
	if l == nil || l.level > level {
		return
	}
	l.logger.Output(3, prefix+fmt.Sprintf(format, args...))
}
