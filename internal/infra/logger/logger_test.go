package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peerwatch/internal/infra/logger"
)

// Логгер глобальный, поэтому тесты здесь последовательные.
func TestLevelsAndFile(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWriters(&buf, &buf)
	defer logger.SetWriters(nil, nil)

	logger.Init("warn")
	logger.Info("hidden")
	logger.Warn("visible", zap.Int64("peer", 7))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.False(t, logger.IsDebugEnabled())

	path := filepath.Join(t.TempDir(), "peerwatch.log")
	logger.EnableFile(logger.FileOptions{Path: path, Level: "debug", MaxSizeMB: 1})
	logger.Debug("to file only")
	logger.Close()
	logger.EnableFile(logger.FileOptions{})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file only")
	assert.NotContains(t, buf.String(), "to file only")

	logger.Init("debug")
	assert.True(t, logger.IsDebugEnabled())
	logger.Init("info")
}
