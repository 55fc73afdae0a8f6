package interaction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestInteraction_Positive(t *testing.T) {
	tests := []struct {
		name string
		in   Interaction
		want bool
	}{
		{name: "like", in: Interaction{InteractionType: TypeLike}, want: true},
		{name: "complete", in: Interaction{InteractionType: TypeComplete}, want: true},
		{name: "short view", in: Interaction{InteractionType: TypeView, TimeSpent: intPtr(120)}, want: false},
		{name: "exactly 300 seconds is not long", in: Interaction{InteractionType: TypeView, TimeSpent: intPtr(300)}, want: false},
		{name: "long view", in: Interaction{InteractionType: TypeView, TimeSpent: intPtr(301)}, want: true},
		{name: "enroll without time", in: Interaction{InteractionType: TypeEnroll}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Positive())
		})
	}
}

func TestDBRepository_Create(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		in        Interaction
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		wantAnErr bool
	}{
		{
			name: "inserts interaction",
			in:   Interaction{ID: "i-1", UserID: "u-1", CourseID: "c-1", InteractionType: TypeView, TimeSpent: intPtr(400), CreatedAt: now},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user_interactions \\(id, user_id, course_id, interaction_type, time_spent, created_at\\) VALUES").
					WithArgs("i-1", "u-1", "c-1", "view", 400, now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:      "rejects unknown type",
			in:        Interaction{UserID: "u-1", CourseID: "c-1", InteractionType: "bookmark"},
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrInvalidType,
		},
		{
			name: "db error",
			in:   Interaction{UserID: "u-1", CourseID: "c-1", InteractionType: TypeLike},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user_interactions").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantAnErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			in := tt.in
			err := repo.Create(context.Background(), &in)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, in.ID)
				assert.False(t, in.CreatedAt.IsZero())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_BatchCreate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("single statement for all rows", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("INSERT INTO user_interactions \\(id, user_id, course_id, interaction_type, time_spent, created_at\\) VALUES \\(\\?, \\?, \\?, \\?, \\?, \\?\\), \\(\\?, \\?, \\?, \\?, \\?, \\?\\)").
			WithArgs("i-1", "u-1", "c-1", "like", nil, now, "i-2", "u-1", "c-2", "view", 30, now).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.BatchCreate(context.Background(), []Interaction{
			{ID: "i-1", UserID: "u-1", CourseID: "c-1", InteractionType: TypeLike, CreatedAt: now},
			{ID: "i-2", UserID: "u-1", CourseID: "c-2", InteractionType: TypeView, TimeSpent: intPtr(30), CreatedAt: now},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		require.NoError(t, repo.BatchCreate(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid row rejects the whole batch", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		err := repo.BatchCreate(context.Background(), []Interaction{
			{UserID: "u-1", CourseID: "c-1", InteractionType: TypeLike},
			{UserID: "u-1", CourseID: "c-1", InteractionType: "poke"},
		})
		assert.ErrorIs(t, err, ErrInvalidType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRepository_FindByUser(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "course_id", "interaction_type", "time_spent", "created_at"}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Interaction
		wantErr   bool
	}{
		{
			name: "returns interactions",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM user_interactions WHERE user_id = \\? ORDER BY created_at, id").
					WithArgs("u-1").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("i-1", "u-1", "c-1", "like", nil, now).
						AddRow("i-2", "u-1", "c-2", "view", 600, now))
			},
			want: []Interaction{
				{ID: "i-1", UserID: "u-1", CourseID: "c-1", InteractionType: TypeLike, CreatedAt: now},
				{ID: "i-2", UserID: "u-1", CourseID: "c-2", InteractionType: TypeView, TimeSpent: intPtr(600), CreatedAt: now},
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM user_interactions").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindByUser(context.Background(), "u-1")
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
