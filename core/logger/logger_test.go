package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		level zapcore.Level
	}{
		{"Production", Config{Level: "info", Format: "json"}, zapcore.InfoLevel},
		{"Development", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"Warn", Config{Level: "warn"}, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			assert.False(t, l.Core().Enabled(tt.level-1))
		})
	}

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := New(&Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")

	l, err := New(&Config{Level: "info", Format: "console", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("written to file", zap.String("bucket", "photos"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written to file"`)
	assert.Contains(t, string(data), `"bucket":"photos"`)
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	c := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(c)

	WithRayID(base, c).Info("without")
	c.Locals("ray_id", "abc-123")
	WithRayID(base, c).Info("with")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "abc-123", entries[1].ContextMap()["ray_id"])
}
