package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/testutil"
)

func setupAPITest(t *testing.T, userID string) (string, apiMocks) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("COURSELY_USER_ID", userID)

	url, m := startAPIServer(t)
	return testutil.SetupTestConfig(t, t.TempDir(), url), m
}

func TestAPICommands(t *testing.T) {
	score := 100.0

	tests := []struct {
		name      string
		userID    string
		args      []string
		setupMock func(m apiMocks)
		want      []string
		wantErr   string
	}{
		{
			name: "leaderboard",
			args: []string{"leaderboard", "--limit", "2"},
			setupMock: func(m apiMocks) {
				m.users.EXPECT().Leaderboard(gomock.Any(), 2).Return([]account.LeaderboardEntry{
					{Rank: 1, UserID: "u-2", DisplayName: "Grace", TotalPoints: 300, CoursesCompleted: 2},
					{Rank: 2, UserID: "u-1", DisplayName: "Ada", TotalPoints: 120, CoursesCompleted: 1},
				}, nil)
			},
			want: []string{"  1. Grace  300 pts  2 completed", "  2. Ada  120 pts  1 completed"},
		},
		{
			name: "courses with filters",
			args: []string{"courses", "--difficulty", "beginner", "--category", "AI"},
			setupMock: func(m apiMocks) {
				m.courses.EXPECT().List(gomock.Any(), course.Filters{Category: "AI", Difficulty: course.Beginner, Limit: 20}).
					Return([]course.Course{{ID: "c-1", Title: "Intro to AI", Category: "AI", Difficulty: course.Beginner, Rating: 4.5}}, nil)
			},
			want: []string{"c-1  Intro to AI  [AI, beginner]  rating 4.5  100 pts"},
		},
		{
			name:    "courses with unknown difficulty",
			args:    []string{"courses", "--difficulty", "expert"},
			wantErr: "invalid value \"expert\"",
		},
		{
			name:   "enroll",
			userID: "u-1",
			args:   []string{"enroll", "c-1"},
			setupMock: func(m apiMocks) {
				m.lifecycle.EXPECT().Enroll(gomock.Any(), "u-1", "c-1").Return(&enrollment.Enrollment{
					ID: "e-1", UserID: "u-1", CourseID: "c-1", VideosCompleted: database.StringList{}, TestOutcome: enrollment.OutcomeNotAttempted,
				}, nil)
			},
			want: []string{"e-1  course c-1  active  progress 0%  videos 0  test not_attempted (-)"},
		},
		{
			name:   "user flag overrides config",
			userID: "u-1",
			args:   []string{"enroll", "c-1", "--user", "u-9"},
			setupMock: func(m apiMocks) {
				m.lifecycle.EXPECT().Enroll(gomock.Any(), "u-9", "c-1").Return(&enrollment.Enrollment{ID: "e-9", CourseID: "c-1"}, nil)
			},
			want: []string{"e-9  course c-1"},
		},
		{
			name:    "enroll without user",
			args:    []string{"enroll", "c-1"},
			wantErr: "no user id",
		},
		{
			name:   "submit",
			userID: "u-1",
			args:   []string{"submit", "e-1", "100"},
			setupMock: func(m apiMocks) {
				m.lifecycle.EXPECT().Get(gomock.Any(), "e-1").Return(&enrollment.Enrollment{ID: "e-1", UserID: "u-1"}, nil)
				m.lifecycle.EXPECT().SubmitTest(gomock.Any(), "e-1", 100.0).Return(&enrollment.SubmitResult{
					Enrollment: &enrollment.Enrollment{
						ID: "e-1", UserID: "u-1", CourseID: "c-1", TestOutcome: enrollment.OutcomePassed, TestScore: &score,
						VideosCompleted: database.StringList{"v1", "v2"},
					},
					Passed:        true,
					PointsAwarded: 120,
				}, nil)
			},
			want: []string{"Passed! +120 points", "completed  progress 100%  videos 2  test passed (100)"},
		},
		{
			name:    "submit with a non-numeric score",
			userID:  "u-1",
			args:    []string{"submit", "e-1", "great"},
			wantErr: "invalid score",
		},
		{
			name:   "watch another user's enrollment",
			userID: "u-1",
			args:   []string{"watch", "e-1", "v1"},
			setupMock: func(m apiMocks) {
				m.lifecycle.EXPECT().Get(gomock.Any(), "e-1").Return(&enrollment.Enrollment{ID: "e-1", UserID: "u-2"}, nil)
			},
			wantErr: "permission_denied",
		},
		{
			name:   "recommend",
			userID: "u-1",
			args:   []string{"recommend"},
			setupMock: func(m apiMocks) {
				m.recommender.EXPECT().Recommend(gomock.Any(), "u-1", 6).Return([]recommend.Recommendation{
					{Course: course.Course{Title: "Intro to AI", Category: "AI", Difficulty: course.Beginner}, MatchScore: 85},
				}, nil)
			},
			want: []string{" 85.0%  Intro to AI  AI · beginner"},
		},
		{
			name:   "interact",
			userID: "u-1",
			args:   []string{"interact", "c-1", "view", "--time-spent", "600"},
			setupMock: func(m apiMocks) {
				m.courses.EXPECT().FindByID(gomock.Any(), "c-1").Return(&course.Course{ID: "c-1"}, nil)
				m.interactions.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, i *interaction.Interaction) error {
						require.NotNil(t, i.TimeSpent)
						assert.Equal(t, 600, *i.TimeSpent)
						i.ID = "i-1"
						return nil
					})
			},
			want: []string{"Recorded view on c-1 (i-1)"},
		},
		{
			name:   "enrollments of an unknown course are reported",
			userID: "u-1",
			args:   []string{"enrollments", "--status", "completed"},
			setupMock: func(m apiMocks) {
				m.lifecycle.EXPECT().ListForUser(gomock.Any(), "u-1", enrollment.StatusCompleted).
					Return(nil, fmt.Errorf("get courses: %w", course.ErrNotFound))
			},
			wantErr: "not_found",
		},
		{
			name:    "analytics month without year",
			userID:  "u-1",
			args:    []string{"analytics", "--month", "3"},
			wantErr: "--month requires --year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath, m := setupAPITest(t, tt.userID)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := execute(t, append(tt.args, "--config", cfgPath)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}
