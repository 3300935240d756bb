package logging

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelDebug, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/log.txt"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Debug("d", String("k", "v"))
	l.Info("i", Int("n", 3))
	l.Warn("w", Bool("b", true))
	l.Error("e", Float64("f", 1.5))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	assert.Equal(t, int64(3), entries[1].ContextMap()["n"])
	assert.Equal(t, true, entries[2].ContextMap()["b"])
	assert.Equal(t, 1.5, entries[3].ContextMap()["f"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)
	l.Named("workflow").With(ProjectID("p-1"), Stage("admet")).Info("stage completed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "workflow", entries[0].LoggerName)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "p-1", ctx[FieldProjectID])
	assert.Equal(t, "admet", ctx[FieldStage])
}

func TestZapLogger_WithError(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.WithError(apperrors.NotFound("project not found")).Error("lookup failed")
	l.WithError(stderrors.New("plain")).Error("plain failed")
	l.WithError(nil).Info("no error")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "[COMMON_003] project not found", entries[0].ContextMap()["error"])
	assert.Equal(t, "COMMON_003", entries[0].ContextMap()[FieldErrorCode])
	assert.NotContains(t, entries[1].ContextMap(), FieldErrorCode)
	assert.NotContains(t, entries[2].ContextMap(), "error")
}

func TestLogOperationDuration(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	LogOperationDuration(l, "fast", time.Now(), time.Hour)
	LogOperationDuration(l, "slow", time.Now().Add(-2*time.Second), time.Second)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "operation completed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "slow", entries[1].ContextMap()["operation"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("n"))
	assert.Equal(t, l, l.WithError(stderrors.New("e")))
	assert.NoError(t, l.Sync())
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}
