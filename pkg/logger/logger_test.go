package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", slog.LevelWarn)

	log.Info("dropped")
	log.Warn("kept", "outlet", "harigala")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "harigala", record["outlet"])
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = New(&buf, "json", slog.LevelInfo)
	t.Cleanup(func() { globalLogger = prev })

	ctx := ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	WithContext(ctx).Info("bill created")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-42", record["request_id"])
}

func TestInitWritesToFile(t *testing.T) {
	prev := globalLogger
	prevDefault := slog.Default()
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prevDefault)
	})

	path := filepath.Join(t.TempDir(), "logs", "pos.log")
	require.NoError(t, Init(Config{Level: "info", Format: "text", Output: "file", FilePath: path, MaxSize: 1}))

	Get().Info("started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=started")
}
