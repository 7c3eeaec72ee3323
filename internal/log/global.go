package log

import (
	"os"
	"sync"
)

// Environment variables consulted when the default logger is built
// lazily, so operators can tune CLI logging without flags.
const (
	EnvLevel  = "WAVEGATE_LOG_LEVEL"
	EnvFormat = "WAVEGATE_LOG_FORMAT"
)

var (
	defaultLogger *Logger
	loggerMu      sync.RWMutex
)

// SetDefaultLogger sets the process-wide default logger.
func SetDefaultLogger(logger *Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// DefaultLogger returns the process-wide default logger.
// If none was configured, one is built from EnvConfig.
func DefaultLogger() *Logger {
	loggerMu.RLock()
	if defaultLogger != nil {
		defer loggerMu.RUnlock()
		return defaultLogger
	}
	loggerMu.RUnlock()

	// Initialize lazily from the environment.
	logger := New(EnvConfig())
	SetDefaultLogger(logger)
	return logger
}

// EnvConfig returns DefaultConfig overridden by the WAVEGATE_LOG_*
// environment variables when they are set.
func EnvConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(EnvLevel); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = ParseFormat(v)
	}
	return cfg
}
