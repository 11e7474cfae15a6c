package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("text", "info", &buf)
		require.NoError(t, err)
		l.Info(ctx, "hello", "k", "v")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("json", "info", &buf)
		require.NoError(t, err)
		l.Info(ctx, "hello", "k", "v")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "v", rec["k"])
	})

	t.Run("zap", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("zap", "info", &buf)
		require.NoError(t, err)
		l.Info(ctx, "hello", "k", "v")
		assert.Contains(t, buf.String(), `"message":"hello"`)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New("xml", "info", &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("text", "warn", &buf)
	require.NoError(t, err)

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "hidden too")
	l.Warn(context.Background(), "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("text", "verbose", &buf)
	require.NoError(t, err)

	l.Debug(context.Background(), "dbg")
	l.Info(context.Background(), "inf")
	assert.False(t, strings.Contains(buf.String(), "msg=dbg"))
	assert.Contains(t, buf.String(), "msg=inf")
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.With("a", 1).Info(ctx, "y")
}
