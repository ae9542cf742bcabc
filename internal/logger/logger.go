// Package logger holds the process-wide zap logger. The minimum level comes
// from log.level at startup and can be switched while the process runs:
// config reloads call SetLevel, which flips a zap.AtomicLevel shared by the
// core, so every holder of the *Logger sees the new level at once.
package logger

import (
	"strings"
	"sync"
)

// Log levels accepted by log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger. Only the first call picks the level;
// afterwards use SetLevel.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// ValidLevel reports whether s names a level this package understands.
// Anything else falls back to debug in SetLevel.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}
