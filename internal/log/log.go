// Package log holds the process-wide zap logger.
package log

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu         sync.RWMutex
	baseLogger *zap.Logger
	sugar      *zap.SugaredLogger // caller skip 1, for the package-level helpers
)

// Init sets up a development (debug) or production logger.
func Init(debug bool) error {
	level := "info"
	if debug {
		level = "debug"
	}
	return Configure(level, debug)
}

// Configure builds the logger from a level name ("debug", "info", "warn",
// "error") and a console/JSON switch.
func Configure(level string, development bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	set(zl)
	return nil
}

// Set installs an existing logger, typically one built by a test.
func Set(zl *zap.Logger) {
	set(zl)
}

func set(zl *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	baseLogger = zl
	sugar = zl.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// GetZapLogger returns the base logger, building a production one on first use.
func GetZapLogger() *zap.Logger {
	mu.RLock()
	zl := baseLogger
	mu.RUnlock()
	if zl != nil {
		return zl
	}
	zl, err := zap.NewProduction()
	if err != nil {
		zl = zap.NewNop()
	}
	set(zl)
	return zl
}

// GetSugaredLogger returns a sugared logger suitable for handing to other packages.
func GetSugaredLogger() *zap.SugaredLogger {
	return GetZapLogger().Sugar()
}

func helper() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}
	GetZapLogger()
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	zl := baseLogger
	mu.RUnlock()
	if zl != nil {
		_ = zl.Sync()
	}
}

func Debugf(template string, args ...interface{}) {
	helper().Debugf(template, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	helper().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	helper().Info(args...)
}

func Infof(template string, args ...interface{}) {
	helper().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	helper().Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	helper().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	helper().Warnw(msg, keysAndValues...)
}

func Errorf(template string, args ...interface{}) {
	helper().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	helper().Errorw(msg, keysAndValues...)
}

func Fatalf(template string, args ...interface{}) {
	helper().Fatalf(template, args...)
}
