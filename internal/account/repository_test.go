package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
)

var userColumns = []string{
	"id", "email", "display_name", "skill_level", "preferred_topics",
	"total_points", "courses_completed", "created_at", "updated_at",
}

func newMockRepository(t *testing.T) (*DBUserRepository, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqlxDB := sqlx.NewDb(db, "mysql")
	return NewDBUserRepository(sqlxDB), sqlxDB, mock
}

func TestDBUserRepository_FindByID(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		setupMock    func(mock sqlmock.Sqlmock)
		want         *User
		wantNotFound bool
		wantErr      bool
	}{
		{
			name: "returns user",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
					WithArgs("u-1").
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow("u-1", "ada@example.com", "Ada", "beginner", `["AI","Python"]`, 120, 1, now, now))
			},
			want: &User{
				ID:               "u-1",
				Email:            "ada@example.com",
				DisplayName:      "Ada",
				SkillLevel:       course.Beginner,
				PreferredTopics:  database.StringList{"AI", "Python"},
				TotalPoints:      120,
				CoursesCompleted: 1,
				CreatedAt:        now,
				UpdatedAt:        now,
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
					WithArgs("u-1").
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantNotFound: true,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
					WithArgs("u-1").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindByID(context.Background(), "u-1")
			switch {
			case tt.wantNotFound:
				assert.ErrorIs(t, err, ErrNotFound)
			case tt.wantErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBUserRepository_FindByEmail(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT \\* FROM users WHERE email = \\?").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	got, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBUserRepository_Create(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	u := &User{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada", PreferredTopics: database.StringList{"AI"}}

	mock.ExpectExec("INSERT INTO users \\(id, email, display_name, skill_level, preferred_topics\\)").
		WithArgs("u-1", "ada@example.com", "Ada", "beginner", `["AI"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, course.Beginner, u.SkillLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBUserRepository_UpdateProfile(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	u := &User{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada L.", SkillLevel: course.Advanced}

	mock.ExpectExec("UPDATE users SET email = \\?, display_name = \\?, skill_level = \\?, preferred_topics = \\? WHERE id = \\?").
		WithArgs("ada@example.com", "Ada L.", "advanced", "[]", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProfile(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBUserRepository_Leaderboard(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []LeaderboardEntry
		wantErr   bool
	}{
		{
			name: "assigns ranks in order",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, display_name, total_points, courses_completed FROM users\\s+ORDER BY total_points DESC, courses_completed DESC, id LIMIT \\?").
					WithArgs(2).
					WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "total_points", "courses_completed"}).
						AddRow("u-2", "Grace", 300, 2).
						AddRow("u-1", "Ada", 120, 1))
			},
			want: []LeaderboardEntry{
				{Rank: 1, UserID: "u-2", DisplayName: "Grace", TotalPoints: 300, CoursesCompleted: 2},
				{Rank: 2, UserID: "u-1", DisplayName: "Ada", TotalPoints: 120, CoursesCompleted: 1},
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, display_name").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.Leaderboard(context.Background(), 2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAwardPoints(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	award := PointsAward{
		UserID:                "u-1",
		EnrollmentID:          "e-1",
		Reason:                ReasonCourseComplete,
		Points:                120,
		CoursesCompletedDelta: 1,
		CreatedAt:             now,
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		wantAnErr bool
	}{
		{
			name: "writes ledger entry and counters",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO points_ledger").
					WithArgs("u-1", "e-1", "course_complete", "", 120, 1, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("UPDATE users SET total_points = total_points \\+ \\?, courses_completed = courses_completed \\+ \\? WHERE id = \\?").
					WithArgs(120, 1, "u-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate ledger entry",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO points_ledger").
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
				mock.ExpectRollback()
			},
			wantErr: ErrAlreadyAwarded,
		},
		{
			name: "missing user",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO points_ledger").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("UPDATE users SET total_points").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: ErrNotFound,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO points_ledger").
					WillReturnError(fmt.Errorf("connection refused"))
				mock.ExpectRollback()
			},
			wantAnErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, db, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := database.RunInTx(context.Background(), db, func(ctx context.Context, tx *sqlx.Tx) error {
				return AwardPoints(ctx, tx, award)
			})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
