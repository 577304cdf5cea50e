package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap SugaredLogger to Logger. Loggers derived through
// With* share the parent's level.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewZapLogger builds a logger writing to stderr at the given level and format.
func NewZapLogger(level, format string) (*ZapLogger, error) {
	atom := zap.NewAtomicLevelAt(parseLevel(level))

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole, "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = atom

	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{sugar: base.Sugar(), level: atom}, nil
}

// NewZapLoggerWithCore wraps an existing zap core. The core should be gated
// on level so SetLevel takes effect.
func NewZapLoggerWithCore(core zapcore.Core, level zap.AtomicLevel) *ZapLogger {
	return &ZapLogger{sugar: zap.New(core).Sugar(), level: level}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, keyValues(fields)...)
}

// Info logs an info message
func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, keyValues(fields)...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, keyValues(fields)...)
}

// Error logs an error message
func (l *ZapLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, keyValues(fields)...)
}

// SetLevel changes the level; unknown names are ignored.
func (l *ZapLogger) SetLevel(level string) {
	if lvl, ok := lookupLevel(level); ok {
		l.level.SetLevel(lvl)
	}
}

// WithField returns a logger with an additional field
func (l *ZapLogger) WithField(key string, value interface{}) Logger {
	return &ZapLogger{sugar: l.sugar.With(key, value), level: l.level}
}

// WithFields returns a logger with additional fields, added in key order.
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &ZapLogger{sugar: l.sugar.With(args...), level: l.level}
}

// With returns a logger with additional fields
func (l *ZapLogger) With(fields ...Field) Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return &ZapLogger{sugar: l.sugar.With(args...), level: l.level}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// keyValues flattens Field arguments into key/value pairs.
func keyValues(fields []interface{}) []interface{} {
	out := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		if field, ok := f.(Field); ok {
			out = append(out, field.Key, field.Value)
			continue
		}
		out = append(out, f)
	}
	return out
}

func lookupLevel(level string) (zapcore.Level, bool) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

func parseLevel(level string) zapcore.Level {
	lvl, _ := lookupLevel(level)
	return lvl
}
