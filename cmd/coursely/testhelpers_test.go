package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/coursely/internal/config"
	"github.com/at-ishikawa/coursely/internal/logger"
	mock_account "github.com/at-ishikawa/coursely/internal/mocks/account"
	mock_course "github.com/at-ishikawa/coursely/internal/mocks/course"
	mock_interaction "github.com/at-ishikawa/coursely/internal/mocks/interaction"
	mock_server "github.com/at-ishikawa/coursely/internal/mocks/server"
	"github.com/at-ishikawa/coursely/internal/server"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

type apiMocks struct {
	courses      *mock_course.MockCourseRepository
	users        *mock_account.MockUserRepository
	interactions *mock_interaction.MockRepository
	lifecycle    *mock_server.MockLifecycle
	recommender  *mock_server.MockRecommender
}

// startAPIServer serves the RPC handlers on top of mocks and returns the server URL.
func startAPIServer(t *testing.T) (string, apiMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := apiMocks{
		courses:      mock_course.NewMockCourseRepository(ctrl),
		users:        mock_account.NewMockUserRepository(ctrl),
		interactions: mock_interaction.NewMockRepository(ctrl),
		lifecycle:    mock_server.NewMockLifecycle(ctrl),
		recommender:  mock_server.NewMockRecommender(ctrl),
	}
	cfg := &config.Config{
		Recommendation: config.RecommendationConfig{DefaultLimit: 6},
		Leaderboard:    config.LeaderboardConfig{DefaultLimit: 50},
	}

	courseHandler, err := server.NewCourseHandler(m.courses, logger.Nop())
	require.NoError(t, err)
	enrollmentHandler, err := server.NewEnrollmentHandler(m.lifecycle, 0, logger.Nop())
	require.NoError(t, err)
	learnerHandler, err := server.NewLearnerHandler(cfg, m.recommender, m.users, m.courses, m.interactions, m.lifecycle, logger.Nop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	courseHandler.Register(mux)
	enrollmentHandler.Register(mux)
	learnerHandler.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL, m
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { log = logger.Nop() })
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
