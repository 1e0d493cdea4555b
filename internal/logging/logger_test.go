package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want zapcore.Level
	}{
		{name: "production default", cfg: Config{}, want: zapcore.InfoLevel},
		{name: "development debug", cfg: Config{Development: true, Level: "debug"}, want: zapcore.DebugLevel},
		{name: "production warn", cfg: Config{Level: "warn"}, want: zapcore.WarnLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			logger, err := New(tc.cfg)
			require.NoError(t, err)
			defer logger.Sync() //nolint:errcheck // best-effort flush
			require.True(t, logger.Core().Enabled(tc.want))
			require.False(t, logger.Core().Enabled(tc.want-1))
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "chatty"})
	require.ErrorContains(t, err, "chatty")
}
