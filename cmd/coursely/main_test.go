package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantDebug: true,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantDebug: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { log.Sync() })
			require.NoError(t, setupLogger(tt.debugMode))
			assert.Equal(t, tt.wantDebug, log.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "coursely", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{
		"migrate", "catalog", "courses", "course", "enroll", "enrollments",
		"watch", "submit", "recommend", "leaderboard", "interact", "analytics",
	})
}
