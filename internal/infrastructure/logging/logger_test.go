package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "chatty"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "polychat.log")

	cfg := DefaultConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Component("session").Info("layout saved", zap.String("reason", "test"))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"layout saved"`)
	assert.Contains(t, string(data), `"logger":"session"`)
}

func TestNilLoggerComponentIsNop(t *testing.T) {
	var l *Logger
	assert.NotNil(t, l.Component("x"))
	assert.NoError(t, l.Close())
}
