package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return Wrap(zap.New(core)), logs
}

func TestLogger_Levels(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	tests := []struct {
		name  string
		write func()
		want  bool
	}{
		{
			name:  "info message",
			write: func() { log.Info("test message", Fields{"key": "value"}) },
			want:  true,
		},
		{
			name:  "debug below threshold",
			write: func() { log.Debug("debug message", nil) },
			want:  false,
		},
		{
			name:  "warn message",
			write: func() { log.Warn("careful", nil) },
			want:  true,
		},
		{
			name:  "error with err",
			write: func() { log.Error("error occurred", nil, errors.New("test error")) },
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := logs.Len()
			tt.write()
			assert.Equal(t, tt.want, logs.Len() > before)
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Error("fetch failed", Fields{"url": "https://example.com", "attempt": 2}, errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]

	assert.Equal(t, "fetch failed", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "https://example.com", ctx["url"])
	assert.EqualValues(t, 2, ctx["attempt"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestToZap_SortedKeys(t *testing.T) {
	fields := toZap(Fields{"b": 1, "a": 2, "c": 3}, nil)

	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	log, logs := observed(zapcore.DebugLevel)
	SetDefault(log)

	Debug("debug", nil)
	Info("info", nil)
	Warn("warn", nil)
	Error("error", nil, nil)

	assert.Equal(t, 4, logs.Len())

	SetDefault(nil)
	assert.NotNil(t, Default())
	Info("dropped", nil)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"development json", Options{Level: "debug", Format: "json"}},
		{"production console", Options{Level: "warn", Format: "console", Production: true}},
		{"unknown level falls back", Options{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.opts)
			require.NoError(t, err)
			assert.NotNil(t, log.Zap())
		})
	}
}
