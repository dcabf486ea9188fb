package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerRoutesPackageHelpers(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Warn("calculator not found", Calculator("missing"))
	Debug("evaluated", zap.Float64("value", 6))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "missing", entry.ContextMap()["calculator"])
}

func TestSetLoggerNilInstallsNop(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })

	SetLogger(nil)
	require.NotNil(t, Logger)
	Info("dropped")
}

func TestInitializeFileOutput(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })

	path := filepath.Join(t.TempDir(), "calc.log")
	err := Initialize(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitializeBadLevelFallsBackToWarn(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })

	require.NoError(t, Initialize(Config{Level: "chatty", Format: "console", Output: "stderr"}))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
}

func TestForCalculatorTagsEntries(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	ForCalculator("uk-take-home").Warn("output evaluation failed",
		Output("incomeTax"),
		Expression("ukIncomeTax(gross"),
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "uk-take-home", fields["calculator"])
	assert.Equal(t, "incomeTax", fields["output"])
	assert.Equal(t, "ukIncomeTax(gross", fields["expression"])
}
