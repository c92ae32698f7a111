package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/home/tester", ".bizdesk", "bizdesk.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/home/tester", ".bizdesk", "bizdesk.log"), cfg.LogFile)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.ReadOnly)
	assert.False(t, cfg.LogCalls)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"BIZDESK_DB":        ":memory:",
		"BIZDESK_LOG_FILE":  "-",
		"BIZDESK_LOG_LEVEL": "debug",
		"BIZDESK_READ_ONLY": "true",
		"BIZDESK_LOG_CALLS": "1",
	})
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, StderrLog, cfg.LogFile)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.ReadOnly)
	assert.True(t, cfg.LogCalls)
}

func TestLoadFrom_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{"unknown level", map[string]string{"BIZDESK_DB": "x.db", "BIZDESK_LOG_FILE": "-", "BIZDESK_LOG_LEVEL": "chatty"}, "parse env"},
		{"fatal level", map[string]string{"BIZDESK_DB": "x.db", "BIZDESK_LOG_FILE": "-", "BIZDESK_LOG_LEVEL": "fatal"}, "BIZDESK_LOG_LEVEL"},
		{"bad bool", map[string]string{"BIZDESK_DB": "x.db", "BIZDESK_LOG_FILE": "-", "BIZDESK_READ_ONLY": "sometimes"}, "parse env"},
		{"directory db path", map[string]string{"BIZDESK_DB": "/tmp/", "BIZDESK_LOG_FILE": "-"}, "is a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
