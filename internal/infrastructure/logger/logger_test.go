package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-service/internal/infrastructure/logger"
)

func TestNew_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("prod", &buf)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Info("visible", slog.Int64("post_id", 7))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, float64(7), entry["post_id"])
}

func TestNew_TestEnvIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("test", &buf)

	log.Debug("debug line", slog.String("key", "value"))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "key=value")
}

func TestLogger_WithKeepsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("dev", &buf)

	log.With(slog.String("component", "tags")).Warn("conflict absorbed")
	assert.Contains(t, buf.String(), `"component":"tags"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
