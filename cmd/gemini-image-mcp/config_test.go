package main

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GEMINI_API_KEY", "GEMINI_IMAGE_MODEL", "GEMINI_TEXT_MODEL",
		"IMAGE_MCP_TRANSPORT", "IMAGE_MCP_HOST", "IMAGE_MCP_PORT",
		"IMAGE_MCP_LOG_LEVEL", "IMAGE_MCP_LOG_FORMAT", "IMAGE_MCP_METRICS_ADDR",
		"IMAGE_MCP_FILENAME_LABELS", "IMAGE_MCP_TRANSFORM_PROMPT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Chdir(t.TempDir()) // no stray .env
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash-image-preview", cfg.ImageModel)
	assert.Equal(t, "gemini-2.0-flash", cfg.TextModel)
	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, "0.0.0.0:9005", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.False(t, cfg.FilenameLabels)
	assert.Equal(t, "transform", cfg.TransformPrompt)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
	t.Setenv("IMAGE_MCP_TRANSPORT", "stdio")
	t.Setenv("IMAGE_MCP_HOST", "127.0.0.1")
	t.Setenv("IMAGE_MCP_PORT", "8080")
	t.Setenv("IMAGE_MCP_LOG_LEVEL", "debug")
	t.Setenv("IMAGE_MCP_FILENAME_LABELS", "true")
	t.Setenv("IMAGE_MCP_TRANSFORM_PROMPT", "edit")
	t.Setenv("IMAGE_MCP_METRICS_ADDR", ":9100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.ImageModel)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.True(t, cfg.FilenameLabels)
	assert.Equal(t, "edit", cfg.TransformPrompt)
	assert.Equal(t, ":9100", cfg.MetricsAddr)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
		want string
	}{
		{"transport", "IMAGE_MCP_TRANSPORT", "websocket", "unknown transport"},
		{"port range", "IMAGE_MCP_PORT", "70000", "out of range"},
		{"port type", "IMAGE_MCP_PORT", "abc", "config"},
		{"log level", "IMAGE_MCP_LOG_LEVEL", "verbose", "unknown log level"},
		{"log format", "IMAGE_MCP_LOG_FORMAT", "xml", "unknown log format"},
		{"transform prompt", "IMAGE_MCP_TRANSFORM_PROMPT", "rewrite", "unknown transform prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.val)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := setupLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "tool", "generate_image_from_text")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.True(t, strings.HasPrefix(out, "{"))
		assert.Contains(t, out, `"tool":"generate_image_from_text"`)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := setupLogger(&Config{LogLevel: "debug", LogFormat: "text"}, &buf)
		require.NoError(t, err)

		logger.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})
}
