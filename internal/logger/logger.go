// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	mu    sync.RWMutex
)

// Init initializes the global logger for the given environment and level.
// "production" selects the JSON encoder; anything else gets the console
// encoder. An unparseable level falls back to info.
func Init(env, level string) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	Set(base.Sugar())
}

// Set replaces the global logger. Tests use it to install zap.NewNop or an
// observer core.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	sugar = l
	mu.Unlock()
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l == nil {
		Init("development", "info")
		mu.RLock()
		l = sugar
		mu.RUnlock()
	}
	return l
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if l := Get(); l != nil {
		_ = l.Sync()
	}
}
