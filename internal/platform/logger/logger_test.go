package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/odata-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  slog.Level
		valid bool
	}{
		{"trace", LevelTrace, true},
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"Error", slog.LevelError, true},
		{"fatal", LevelFatal, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with app attribute", func(t *testing.T) {
		t.Parallel()
		buf := &TestLogBuffer{}
		l := New(buf, config.ServerConfig{LogLevel: "info", AppName: "odata-api"})

		l.Info("hello", "k", "v")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "INFO", entries[0]["level"])
		assert.Equal(t, "hello", entries[0]["msg"])
		assert.Equal(t, "odata-api", entries[0]["app"])
		assert.Equal(t, "v", entries[0]["k"])
	})

	t.Run("filters below configured level", func(t *testing.T) {
		t.Parallel()
		buf := &TestLogBuffer{}
		l := New(buf, config.ServerConfig{LogLevel: "warn"})

		l.Info("dropped")
		l.Warn("kept")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kept", entries[0]["msg"])
		assert.NotContains(t, entries[0], "app")
	})

	t.Run("names trace and fatal levels", func(t *testing.T) {
		t.Parallel()
		buf := &TestLogBuffer{}
		l := New(buf, config.ServerConfig{LogLevel: "trace"})

		l.Log(context.Background(), LevelTrace, "t")
		l.Log(context.Background(), LevelFatal, "f")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "TRACE", entries[0]["level"])
		assert.Equal(t, "FATAL", entries[1]["level"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		t.Parallel()
		buf := &TestLogBuffer{}
		l := New(buf, config.ServerConfig{LogLevel: "loud"})

		l.Debug("dropped")
		l.Info("kept")

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
		assert.Equal(t, "kept", entry["msg"])
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	l, buf := NewTestLogger(t)
	ctx := WithLogger(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, l, FromContextOrDefault(ctx, slog.Default()))

	fallback := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	assert.NotNil(t, FromContext(context.Background()))

	FromContext(ctx).Debug("through context")
	assert.Contains(t, buf.String(), "through context")
}
