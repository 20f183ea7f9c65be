package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/stretchr/testify/assert"
)

func Test_toLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, toLevel(in), "level %q", in)
	}
}

func Test_NewLoggerTo_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, config.LogConfig{Level: "warn"})

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.True(t, log.Enabled(context.Background(), slog.LevelError))
}

func Test_NewLoggerTo_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, config.LogConfig{Level: "info", Format: config.LogFormatText})

	log.Info("catalog started", "port", 8000)

	assert.Contains(t, buf.String(), "msg=\"catalog started\" port=8000")
}
