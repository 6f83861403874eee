// Package logging provides leveled, structured logging for the config
// toolkit.
//
// Initialize the global level once at startup:
//
//	logging.Initialize("info")
//
// Get a named logger per component:
//
//	logger := logging.GetLogger("config.watcher")
//	logger.Info("watching %s", path)
//
// Persistent fields for operation context:
//
//	runLogger := logger.WithField("config", path)
//	runLogger.Warn("reload failed")
//
// DEBUG/INFO/WARN go to stdout, ERROR/FATAL to stderr. Fatal exits with
// code 1. Logger values are immutable; WithField returns a new instance, so
// sharing across goroutines needs no coordination.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the logging severity.
type Level int

const (
	// DEBUG level for detailed debugging information
	DEBUG Level = iota
	// INFO level for informational messages
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for errors that terminate the program
	FATAL
)

// LogField is a structured logging field.
type LogField struct {
	Key   string
	Value interface{}
}

// Field creates a structured logging field.
func Field(key string, value interface{}) LogField {
	return LogField{Key: key, Value: value}
}

// Logger writes leveled messages for one named component.
type Logger struct {
	level  Level
	name   string
	fields map[string]interface{}
}

var (
	globalLevel = INFO
	levelMu     sync.RWMutex

	// exitFunc is called by Fatal. Overridable for tests.
	exitFunc = os.Exit

	// out and errOut are the log destinations. Overridable for tests.
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// Initialize sets the global log level. Unknown level strings fall back to
// INFO.
func Initialize(levelStr string) {
	levelMu.Lock()
	defer levelMu.Unlock()

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		globalLevel = DEBUG
	case "INFO":
		globalLevel = INFO
	case "WARN":
		globalLevel = WARN
	case "ERROR":
		globalLevel = ERROR
	case "FATAL":
		globalLevel = FATAL
	default:
		globalLevel = INFO
	}
}

// GetLogger returns a logger named after the component it logs for.
func GetLogger(name string) *Logger {
	levelMu.RLock()
	defer levelMu.RUnlock()
	return &Logger{
		level:  globalLevel,
		name:   name,
		fields: make(map[string]interface{}),
	}
}

// WithField returns a new logger carrying an additional persistent field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{level: l.level, name: l.name, fields: fields}
}

// WithFields returns a new logger carrying additional persistent fields.
func (l *Logger) WithFields(fields ...LogField) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{level: l.level, name: l.name, fields: merged}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.write("DEBUG", msg, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.write("INFO", msg, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.write("WARN", msg, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.level <= ERROR {
		l.write("ERROR", msg, args...)
	}
}

// ErrorWithErr logs an error message with an error object
func (l *Logger) ErrorWithErr(msg string, err error) {
	if l.level <= ERROR {
		l.write("ERROR", "%s - %v", msg, err)
	}
}

// Fatal logs a fatal message and exits the program with code 1
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.write("FATAL", msg, args...)
	exitFunc(1)
}

// write formats and routes one log line. ERROR and FATAL go to stderr,
// everything else to stdout.
func (l *Logger) write(level, msg string, args ...interface{}) {
	line := fmt.Sprintf("[%s] [%s] %s: %s", timestamp(), level, l.name, fmt.Sprintf(msg, args...))

	if len(l.fields) > 0 {
		line += " |"
		for k, v := range l.fields {
			line += fmt.Sprintf(" %s=%v", k, v)
		}
	}

	if level == "ERROR" || level == "FATAL" {
		fmt.Fprintln(errOut, line)
	} else {
		fmt.Fprintln(out, line)
	}
}

// timestamp returns the RFC3339 log timestamp. The LOG_TIMESTAMP env var
// overrides it for deterministic test output.
func timestamp() string {
	if override := os.Getenv("LOG_TIMESTAMP"); override != "" {
		return override
	}
	return time.Now().Format(time.RFC3339)
}
