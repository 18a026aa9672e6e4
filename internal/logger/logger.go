// Package logger provides structured logging for belle-events.
//
// It wraps a zap logger behind a small field-map API so call sites stay terse:
//
//	logger.Info("Extraction finished", logger.Fields{
//	    "strategy": "direct-links",
//	    "events":   12,
//	})
//
//	logger.Error("Acquisition failed", logger.Fields{"url": url}, err)
//
// The package-level helpers write to a default logger that can be replaced
// with SetDefault once configuration is loaded.
package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Options selects the encoder and minimum level.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Production bool
}

// Logger provides structured logging
type Logger struct {
	z *zap.Logger
}

var defaultLogger = Wrap(zap.NewNop())

// New builds a logger from options. An unknown level falls back to info.
func New(opts Options) (*Logger, error) {
	var cfg zap.Config
	if opts.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch opts.Format {
	case "console":
		cfg.Encoding = "console"
	default:
		cfg.Encoding = "json"
	}

	if opts.Level != "" {
		if err := cfg.Level.UnmarshalText([]byte(opts.Level)); err != nil {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return Wrap(z), nil
}

// Wrap adapts an existing zap logger.
func Wrap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// SetDefault sets the default package-level logger used by the convenience functions
func SetDefault(logger *Logger) {
	if logger == nil {
		logger = Wrap(nil)
	}
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// toZap converts fields in key order so output is deterministic.
func toZap(fields Fields, err error) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return out
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) {
	l.z.Debug(message, toZap(fields, nil)...)
}

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) {
	l.z.Info(message, toZap(fields, nil)...)
}

// Warn logs a condition that degrades but does not stop the operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.z.Warn(message, toZap(fields, nil)...)
}

// Error logs a failure along with its error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.z.Error(message, toZap(fields, err)...)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
