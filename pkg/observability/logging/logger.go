package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	logger = newLogger(zapcore.InfoLevel, "console").Sugar()
}

// InitLoggerFromEnv configures the package logger from the environment:
// ROUTER_LOG_LEVEL (debug|info|warn|error) and ROUTER_LOG_FORMAT (json|console).
// It returns the underlying zap logger so callers can hook it into other
// libraries if needed.
func InitLoggerFromEnv() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := os.Getenv("ROUTER_LOG_LEVEL"); raw != "" {
		if err := level.Set(strings.ToLower(raw)); err != nil {
			return nil, err
		}
	}
	format := strings.ToLower(os.Getenv("ROUTER_LOG_FORMAT"))
	if format != "json" {
		format = "console"
	}

	l := newLogger(level, format)
	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
	return l, nil
}

// SetLogger replaces the package logger. Intended for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
}

func newLogger(level zapcore.Level, format string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	get().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	get().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	get().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	get().Errorf(format, args...)
}

// LogEvent emits a structured event record. The event name is carried in the
// "event" field alongside the caller-supplied fields, so downstream log
// pipelines can filter on it without parsing the message text.
func LogEvent(event string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, 2+2*len(fields))
	kv = append(kv, "event", event)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	get().Infow(event, kv...)
}

// Sync flushes any buffered log entries.
func Sync() error {
	return get().Sync()
}
