package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
	}{
		{name: "production json", env: "production", level: "info"},
		{name: "development console", env: "development", level: "debug"},
		{name: "warn level", env: "development", level: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.env, tt.level)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
			_ = logger.Sync()
		})
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger("development", "shout")
	assert.Error(t, err)
}
