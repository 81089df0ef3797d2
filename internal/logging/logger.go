// Package logging provides config-driven categorized logging for matrixterm.
// Each category is a named zap child logger. Logging is controlled by the
// debug_mode toggle in the config file - when false, every category logger
// is a no-op so the interactive screen is never written to.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and shutdown
	CategorySession Category = "session" // Session state machine, event intake
	CategoryShell   Category = "shell"   // Parse, dispatch, builtins
	CategoryTactile Category = "tactile" // External process execution
	CategoryWorld   Category = "world"   // Directory listing
	CategoryHistory Category = "history" // History ledger
	CategoryEffects Category = "effects" // Rain scheduler
	CategoryUI      Category = "ui"      // Render/input host
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	DebugMode   bool
	Level       string // debug, info, warn, error
	Format      string // json, console
	OutputPaths []string
	Categories  map[string]bool
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	options Options
	loggers = make(map[Category]*Logger)
)

// Initialize builds the root zap logger from opts.
// With DebugMode off it installs a no-op logger and returns nil.
func Initialize(opts Options) error {
	if !opts.DebugMode {
		install(zap.NewNop(), opts)
		return nil
	}

	cfg := zap.NewProductionConfig()
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
		cfg.ErrorOutputPaths = opts.OutputPaths
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	install(l, opts)

	Boot("=== matrixterm logging initialized ===")
	Boot("Log level: %s, format: %s, outputs: %v", opts.Level, opts.Format, cfg.OutputPaths)
	return nil
}

// InitializeWithLogger installs an existing zap logger as the root.
// Tests use this with zaptest/observer.
func InitializeWithLogger(l *zap.Logger, opts Options) {
	if l == nil {
		l = zap.NewNop()
	}
	opts.DebugMode = true
	install(l, opts)
}

func install(l *zap.Logger, opts Options) {
	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = l
	options = opts
	loggers = make(map[Category]*Logger)
}

// ParseLevel maps a config level string to a zap level (default info).
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsDebugMode returns whether logging is enabled at all
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return options.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if !options.DebugMode {
		return false
	}
	if options.Categories == nil {
		return true
	}
	enabled, exists := options.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	base := zap.NewNop()
	if categoryEnabled(category) {
		base = root.Named(string(category))
	}
	l := &Logger{category: category, sugar: base.Sugar()}
	loggers[category] = l
	return l
}

// Zap exposes the underlying structured logger for callers that log fields.
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying key-value context on every line.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries of the root logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

// CloseAll flushes and resets to the no-op logger (call at shutdown)
func CloseAll() {
	install(zap.NewNop(), Options{})
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }
func SessionWarn(format string, args ...interface{})  { Get(CategorySession).Warn(format, args...) }

func Shell(format string, args ...interface{})      { Get(CategoryShell).Info(format, args...) }
func ShellDebug(format string, args ...interface{}) { Get(CategoryShell).Debug(format, args...) }
func ShellWarn(format string, args ...interface{})  { Get(CategoryShell).Warn(format, args...) }

func Tactile(format string, args ...interface{})      { Get(CategoryTactile).Info(format, args...) }
func TactileDebug(format string, args ...interface{}) { Get(CategoryTactile).Debug(format, args...) }
func TactileWarn(format string, args ...interface{})  { Get(CategoryTactile).Warn(format, args...) }
func TactileError(format string, args ...interface{}) { Get(CategoryTactile).Error(format, args...) }

func WorldDebug(format string, args ...interface{}) { Get(CategoryWorld).Debug(format, args...) }
func WorldWarn(format string, args ...interface{})  { Get(CategoryWorld).Warn(format, args...) }

func HistoryDebug(format string, args ...interface{}) { Get(CategoryHistory).Debug(format, args...) }

func Effects(format string, args ...interface{})      { Get(CategoryEffects).Info(format, args...) }
func EffectsDebug(format string, args ...interface{}) { Get(CategoryEffects).Debug(format, args...) }
func EffectsWarn(format string, args ...interface{})  { Get(CategoryEffects).Warn(format, args...) }

func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
