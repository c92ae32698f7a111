package observe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserver_LevelsByOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewZapObserver(zap.New(core), false)
	ctx := context.Background()

	Track(ctx, obs, "clients.list", nil)(nil)
	Track(ctx, obs, "clients.insert", map[string]any{"id": "c-1"})(errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "clients.list", entries[0].ContextMap()["use_case"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "c-1", entries[1].ContextMap()["id"])
}

func TestZapObserver_VerboseLogsSuccessAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapObserver(zap.New(core), true)

	Track(context.Background(), obs, "roles.list", nil)(nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil, nil))
	assert.Equal(t, Noop{}, NewZapObserver(nil, true))
}
