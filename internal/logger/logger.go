package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the receipt keeper logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// ZapLogger implements Logger on top of a zap sugared logger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New wraps an existing zap logger.
func New(l *zap.Logger) *ZapLogger {
	return &ZapLogger{
		logger: l.Sugar(),
	}
}

// NewConsole creates a human readable logger on stderr.
// Debug messages are only written when verbose is set.
func NewConsole(verbose bool) *ZapLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return NewNop()
	}
	return New(l)
}

// NewNop creates a logger that discards everything.
func NewNop() *ZapLogger {
	return New(zap.NewNop())
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.logger.Infof(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.logger.Warnf(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.logger.Errorf(msg, args...)
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.logger.Debugf(msg, args...)
}

// Sync flushes any buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// Default provides a global default logger instance writing to stderr.
var Default Logger = NewConsole(false)
