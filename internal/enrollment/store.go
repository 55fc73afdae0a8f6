package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
)

//go:generate mockgen -source=store.go -destination=../mocks/enrollment/mock_store.go -package=mock_enrollment

// Store is the persistence the lifecycle manager needs.
type Store interface {
	GetEnrollment(ctx context.Context, id string) (*Enrollment, error)
	CreateEnrollment(ctx context.Context, e *Enrollment) error
	// UpdateEnrollment writes the mutable fields of e if its stored revision equals expectedRevision,
	// and records award in the same transaction when it is non-nil.
	UpdateEnrollment(ctx context.Context, e *Enrollment, expectedRevision int64, award *account.PointsAward) error
	ListByUser(ctx context.Context, userID string, status Status) ([]Enrollment, error)
	ListEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
	GetCourse(ctx context.Context, id string) (*course.Course, error)
	GetCourses(ctx context.Context, ids []string) ([]course.Course, error)
}

// DBStore implements Store using MySQL.
type DBStore struct {
	db      *sqlx.DB
	courses course.CourseRepository
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sqlx.DB, courses course.CourseRepository) *DBStore {
	return &DBStore{db: db, courses: courses}
}

// GetEnrollment returns the enrollment or ErrNotFound.
func (s *DBStore) GetEnrollment(ctx context.Context, id string) (*Enrollment, error) {
	var e Enrollment
	err := s.db.GetContext(ctx, &e, "SELECT * FROM enrollments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: enrollment %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(enrollment) > %w", err)
	}
	return &e, nil
}

// CreateEnrollment inserts a new enrollment.
func (s *DBStore) CreateEnrollment(ctx context.Context, e *Enrollment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, videos_completed, test_outcome, test_score,
		completion_awarded, enrolled_at, completed_at, last_accessed_at, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.CourseID, e.VideosCompleted, e.TestOutcome, e.TestScore,
		e.CompletionAwarded, e.EnrolledAt, e.CompletedAt, e.LastAccessedAt, e.Revision)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert enrollment) > %w", err)
	}
	return nil
}

// UpdateEnrollment returns ErrConcurrencyConflict when the row was changed since expectedRevision was read.
// On success e.Revision is advanced.
func (s *DBStore) UpdateEnrollment(ctx context.Context, e *Enrollment, expectedRevision int64, award *account.PointsAward) error {
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE enrollments SET videos_completed = ?, test_outcome = ?, test_score = ?, completion_awarded = ?,
			completed_at = ?, last_accessed_at = ?, revision = revision + 1
			WHERE id = ? AND revision = ?`,
			e.VideosCompleted, e.TestOutcome, e.TestScore, e.CompletionAwarded,
			e.CompletedAt, e.LastAccessedAt, e.ID, expectedRevision)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update enrollment) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: enrollment %s revision %d", ErrConcurrencyConflict, e.ID, expectedRevision)
		}

		if award == nil {
			return nil
		}
		// A duplicate ledger row surfaces as account.ErrAlreadyAwarded, not as a conflict.
		return account.AwardPoints(ctx, tx, *award)
	})
	if err != nil {
		return err
	}
	e.Revision = expectedRevision + 1
	return nil
}

// ListByUser returns the user's enrollments, most recently accessed first. An empty status returns all.
func (s *DBStore) ListByUser(ctx context.Context, userID string, status Status) ([]Enrollment, error) {
	query := "SELECT * FROM enrollments WHERE user_id = ?"
	switch status {
	case StatusCompleted:
		query += " AND test_outcome = 'passed'"
	case StatusActive:
		query += " AND test_outcome <> 'passed'"
	}
	query += " ORDER BY last_accessed_at DESC, id"

	var enrollments []Enrollment
	if err := s.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(enrollments by user) > %w", err)
	}
	return enrollments, nil
}

// ListEnrolledCourseIDs returns the distinct course ids the user has enrolled in.
func (s *DBStore) ListEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids,
		"SELECT DISTINCT course_id FROM enrollments WHERE user_id = ?", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(enrolled course ids) > %w", err)
	}
	return ids, nil
}

// GetCourse returns the course or ErrNotFound.
func (s *DBStore) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if errors.Is(err, course.ErrNotFound) {
		return nil, fmt.Errorf("%w: course %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCourses returns the existing courses among ids.
func (s *DBStore) GetCourses(ctx context.Context, ids []string) ([]course.Course, error) {
	return s.courses.FindByIDs(ctx, ids)
}
