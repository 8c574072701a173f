package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viscolab.log")
	require.NoError(t, Initialize(Config{Level: "debug", Format: "json", Output: path}))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("calibrated", zap.Float64("slope", 3.5))
	Sync()
	require.FileExists(t, path)
}

func TestInitializeNone(t *testing.T) {
	require.NoError(t, Initialize(Config{Output: "none"}))
	require.NotNil(t, Logger)
	require.NotNil(t, Sugar)
	Warn("discarded")
}

func TestInitializeBadLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: "loud", Output: "stderr"}))
	require.False(t, Logger.Core().Enabled(zap.DebugLevel))
	require.True(t, Logger.Core().Enabled(zap.InfoLevel))
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: "info", Output: "stderr"}))
	t.Cleanup(func() { _ = SetLevel("info") })

	require.False(t, Logger.Core().Enabled(zap.DebugLevel))
	require.NoError(t, SetLevel("debug"))
	require.True(t, Logger.Core().Enabled(zap.DebugLevel))
	require.Error(t, SetLevel("chatty"))
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Named("solver").Warn("renormalized blend solution")
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "solver", logs.All()[0].LoggerName)
}
