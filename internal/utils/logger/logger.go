package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger is a small console logger with a per-component name.
type Logger struct {
	component string
}

var (
	INFO_EMOJI    = "ℹ️ "
	SUCCESS_EMOJI = "✅ "
	WARN_EMOJI    = "⚠️ "
	ERROR_EMOJI   = "❌ "
)

func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) format(level, emoji, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		emoji,
		timestamp,
		level,
		filepath.Base(file),
		line,
		l.component,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.format("INFO", INFO_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.format("SUCCESS", SUCCESS_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.format("WARN", WARN_EMOJI, fmt.Sprintf(msg, args...)))
}

// Error logs the message with its cause and returns a wrapped error so
// callers can `return log.Error(...)` in one statement.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	formatted := l.format("ERROR", ERROR_EMOJI, fmt.Sprintf(msg, args...))
	if err != nil {
		formatted = fmt.Sprintf("%s: %v", formatted, err)
	}
	color.Red(formatted)
	if err == nil {
		return fmt.Errorf("%s", fmt.Sprintf(msg, args...))
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}
