package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	tests := []struct {
		name     string
		fn       func()
		level    zapcore.Level
		expected string
	}{
		{
			name:     "Info",
			fn:       func() { l.Info("test message") },
			level:    zapcore.InfoLevel,
			expected: "test message",
		},
		{
			name:     "Warn",
			fn:       func() { l.Warn("warning message") },
			level:    zapcore.WarnLevel,
			expected: "warning message",
		},
		{
			name:     "Error",
			fn:       func() { l.Error("error message") },
			level:    zapcore.ErrorLevel,
			expected: "error message",
		},
		{
			name:     "Debug",
			fn:       func() { l.Debug("debug message") },
			level:    zapcore.DebugLevel,
			expected: "debug message",
		},
		{
			name:     "Info with args",
			fn:       func() { l.Info("test %s=%d", "count", 42) },
			level:    zapcore.InfoLevel,
			expected: "test count=42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn()
			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if got := entries[0].Message; got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if got := entries[0].Level; got != tt.level {
				t.Errorf("got level %v, want %v", got, tt.level)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("dropped %d", 1)
	l.Debug("dropped")
}

func TestDefault(t *testing.T) {
	if Default == nil {
		t.Error("Default logger should not be nil")
	}

	Default.Info("test")
}
