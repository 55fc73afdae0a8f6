package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/account/mock_repository.go -package=mock_account

// UserRepository defines operations for reading and maintaining users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, u *User) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// DBUserRepository implements UserRepository using MySQL.
type DBUserRepository struct {
	db *sqlx.DB
}

// NewDBUserRepository creates a new DBUserRepository.
func NewDBUserRepository(db *sqlx.DB) *DBUserRepository {
	return &DBUserRepository{db: db}
}

// FindByID returns the user or ErrNotFound.
func (r *DBUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user) > %w", err)
	}
	return &u, nil
}

// FindByEmail returns the user with the email, or nil if not found.
func (r *DBUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user by email) > %w", err)
	}
	return &u, nil
}

// Create inserts a user with zero points.
func (r *DBUserRepository) Create(ctx context.Context, u *User) error {
	if u.SkillLevel == "" {
		u.SkillLevel = course.Beginner
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, display_name, skill_level, preferred_topics) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Email, u.DisplayName, u.SkillLevel, u.PreferredTopics)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert user) > %w", err)
	}
	return nil
}

// UpdateProfile updates the descriptive fields of a user. Point counters are left untouched.
func (r *DBUserRepository) UpdateProfile(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET email = ?, display_name = ?, skill_level = ?, preferred_topics = ? WHERE id = ?",
		u.Email, u.DisplayName, u.SkillLevel, u.PreferredTopics, u.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update user) > %w", err)
	}
	return nil
}

// Leaderboard returns the top limit users by points, then completed courses, with 1-based ranks.
func (r *DBUserRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT id, display_name, total_points, courses_completed FROM users
		ORDER BY total_points DESC, courses_completed DESC, id LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(leaderboard) > %w", err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// AwardPoints records award in the points ledger and adds it to the user's counters using tx.
// It returns ErrAlreadyAwarded if the same event was already recorded and ErrNotFound if the user is missing.
func AwardPoints(ctx context.Context, tx sqlx.ExecerContext, award PointsAward) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO points_ledger (user_id, enrollment_id, reason, reference, points, courses_completed_delta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		award.UserID, award.EnrollmentID, award.Reason, award.Reference, award.Points, award.CoursesCompletedDelta, award.CreatedAt)
	if database.IsDuplicateEntry(err) {
		return fmt.Errorf("%w: %s %s %s", ErrAlreadyAwarded, award.EnrollmentID, award.Reason, award.Reference)
	}
	if err != nil {
		return fmt.Errorf("tx.ExecContext(insert points_ledger) > %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE users SET total_points = total_points + ?, courses_completed = courses_completed + ? WHERE id = ?",
		award.Points, award.CoursesCompletedDelta, award.UserID)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(update user points) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, award.UserID)
	}
	return nil
}
