package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to ddms.Logger. Messages are formatted with
// fmt before they reach zap, so the output carries one "msg" field per line.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger builds a JSON logger on stderr. Verbose maps to zap's debug
// level and is only emitted when verbose is true.
func NewZapLogger(verbose bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return NewZapLoggerFrom(l), nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l.Sugar()}
}

func (l *ZapLogger) Verbose(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l *ZapLogger) Info(format string, args ...interface{})    { l.log.Infof(format, args...) }
func (l *ZapLogger) Warn(format string, args ...interface{})    { l.log.Warnf(format, args...) }
func (l *ZapLogger) Error(format string, args ...interface{})   { l.log.Errorf(format, args...) }

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}
