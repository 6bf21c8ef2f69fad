package logx

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger()
)

func newLogger() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Sugar()
}

// SetLevel changes the minimum level that gets written
func SetLevel(l Level) {
	level.SetLevel(zapcore.Level(l))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// With returns a logger carrying the given key/value pairs
func With(keysAndValues ...any) *zap.SugaredLogger {
	return logger.With(keysAndValues...)
}

func Debug(args ...any)                   { logger.Debug(args...) }
func Debugf(template string, args ...any) { logger.Debugf(template, args...) }
func Info(args ...any)                    { logger.Info(args...) }
func Infof(template string, args ...any)  { logger.Infof(template, args...) }
func Warn(args ...any)                    { logger.Warn(args...) }
func Warnf(template string, args ...any)  { logger.Warnf(template, args...) }
func Error(args ...any)                   { logger.Error(args...) }
func Errorf(template string, args ...any) { logger.Errorf(template, args...) }
func Fatal(args ...any)                   { logger.Fatal(args...) }
func Fatalf(template string, args ...any) { logger.Fatalf(template, args...) }

// Sync flushes buffered entries
func Sync() {
	_ = logger.Sync()
}
