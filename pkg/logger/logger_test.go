package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(config.LogConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l.Warn("slow request", zap.String("path", "/api/v1/books"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"slow request"`)
	assert.Contains(t, string(data), `"path":"/api/v1/books"`)

	// 全局Logger已被替换
	assert.Same(t, l, zap.L())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(config.LogConfig{Level: "verbose", Output: "stderr"})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadPath(t *testing.T) {
	_, err := New(config.LogConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.Error(t, err)
}
