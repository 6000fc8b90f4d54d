package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ProxyLeaseCheck/config"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func setupTestLogger(cfg config.LoggerConfig) *bytes.Buffer {
	buf := new(bytes.Buffer)
	initializeLogger(cfg, zapcore.AddSync(buf))
	return buf
}

func resetGlobalLogger() {
	once = sync.Once{}
	globalLogger.Store(nil)
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetGlobalLogger()
	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("dropped")
}

func TestInitializeLogger(t *testing.T) {
	t.Run("console logger carries level, message and run id", func(t *testing.T) {
		resetGlobalLogger()
		prev := color.NoColor
		color.NoColor = true
		t.Cleanup(func() { color.NoColor = prev })

		buf := setupTestLogger(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "test"})

		GetLogger().Info("authentication failed", zap.String("step", "login"))
		Sync()

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "authentication failed")
		assert.Contains(t, output, `"step": "login"`)
		assert.Contains(t, output, "run_id")
	})

	t.Run("json logger", func(t *testing.T) {
		resetGlobalLogger()
		buf := setupTestLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "test"})

		GetLogger().Warn("navigation failed")
		Sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "navigation failed", entry["msg"])
		assert.Equal(t, "test", entry["logger"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		resetGlobalLogger()
		buf := setupTestLogger(config.LoggerConfig{Level: "info", Format: "console"})

		GetLogger().Debug("hidden")
		Sync()

		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		resetGlobalLogger()
		buf := setupTestLogger(config.LoggerConfig{Level: "loud", Format: "console"})

		GetLogger().Debug("hidden")
		GetLogger().Info("shown")
		Sync()

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("file sink writes json", func(t *testing.T) {
		resetGlobalLogger()
		path := filepath.Join(t.TempDir(), "scrape.log")
		setupTestLogger(config.LoggerConfig{Level: "info", Format: "console", File: path, MaxSize: 1})

		GetLogger().Error("table extraction failed")
		Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		line := strings.TrimSpace(string(data))
		assert.True(t, strings.HasPrefix(line, "{"))
		assert.Contains(t, line, "table extraction failed")
	})
}
