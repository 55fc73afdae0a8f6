package enrollment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/database"
)

// Manager applies lifecycle transitions to enrollments.
type Manager struct {
	store Store
	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how enrollment ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a new Manager.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a single enrollment.
func (m *Manager) Get(ctx context.Context, enrollmentID string) (*Enrollment, error) {
	if enrollmentID == "" {
		return nil, fmt.Errorf("%w: enrollment id is required", ErrInvalidInput)
	}
	return m.store.GetEnrollment(ctx, enrollmentID)
}

// Enroll creates a fresh enrollment of userID in courseID. Repeated enrollments in the same course are allowed.
func (m *Manager) Enroll(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	if userID == "" || courseID == "" {
		return nil, fmt.Errorf("%w: user id and course id are required", ErrInvalidInput)
	}
	if _, err := m.store.GetCourse(ctx, courseID); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	now := m.now()
	e := &Enrollment{
		ID:              m.newID(),
		UserID:          userID,
		CourseID:        courseID,
		VideosCompleted: database.StringList{},
		TestOutcome:     OutcomeNotAttempted,
		EnrolledAt:      now,
		LastAccessedAt:  now,
		Revision:        1,
	}
	if err := m.store.CreateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return e, nil
}

// MarkVideoComplete records videoID as watched. The first time a video is recorded the user earns VideoPoints.
// Progress and status are not affected.
func (m *Manager) MarkVideoComplete(ctx context.Context, enrollmentID, videoID string) (*Enrollment, error) {
	if enrollmentID == "" {
		return nil, fmt.Errorf("%w: enrollment id is required", ErrInvalidInput)
	}
	if videoID == "" || len(videoID) > MaxVideoIDLength {
		return nil, fmt.Errorf("%w: video id must be 1 to %d characters", ErrInvalidInput, MaxVideoIDLength)
	}

	e, err := m.store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	expected := e.Revision
	now := m.now()

	var award *account.PointsAward
	if !e.HasVideo(videoID) {
		e.VideosCompleted = append(e.VideosCompleted, videoID)
		award = &account.PointsAward{
			UserID:       e.UserID,
			EnrollmentID: e.ID,
			Reason:       account.ReasonVideoComplete,
			Reference:    videoID,
			Points:       VideoPoints,
			CreatedAt:    now,
		}
	}
	e.LastAccessedAt = now

	if err := m.store.UpdateEnrollment(ctx, e, expected, award); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return e, nil
}

// SubmitTest records a test score. A score of PassThreshold or more completes the enrollment.
// Completion points are awarded only on the first transition to completed.
func (m *Manager) SubmitTest(ctx context.Context, enrollmentID string, score float64) (*SubmitResult, error) {
	if enrollmentID == "" {
		return nil, fmt.Errorf("%w: enrollment id is required", ErrInvalidInput)
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}

	e, err := m.store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	expected := e.Revision
	wasCompleted := e.Status() == StatusCompleted
	now := m.now()
	passed := score >= PassThreshold

	e.TestScore = &score
	e.LastAccessedAt = now
	if passed {
		e.TestOutcome = OutcomePassed
		if e.CompletedAt == nil {
			e.CompletedAt = &now
		}
	} else {
		e.TestOutcome = OutcomeFailed
		e.CompletedAt = nil
	}

	var award *account.PointsAward
	if passed && !wasCompleted && !e.CompletionAwarded {
		c, err := m.store.GetCourse(ctx, e.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course: %w", err)
		}
		points := c.CompletionPoints()
		if score == 100 {
			points += PerfectScoreBonus
		}
		e.CompletionAwarded = true
		award = &account.PointsAward{
			UserID:                e.UserID,
			EnrollmentID:          e.ID,
			Reason:                account.ReasonCourseComplete,
			Points:                points,
			CoursesCompletedDelta: 1,
			CreatedAt:             now,
		}
	}

	if err := m.store.UpdateEnrollment(ctx, e, expected, award); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}

	result := &SubmitResult{Enrollment: e, Passed: passed}
	if award != nil {
		result.PointsAwarded = award.Points
	}
	return result, nil
}

// ListForUser returns the user's enrollments with their courses, most recently accessed first.
func (m *Manager) ListForUser(ctx context.Context, userID string, status Status) ([]WithCourse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	switch status {
	case "", StatusActive, StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	enrollments, err := m.store.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return []WithCourse{}, nil
	}

	seen := make(map[string]struct{}, len(enrollments))
	var courseIDs []string
	for _, e := range enrollments {
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		courseIDs = append(courseIDs, e.CourseID)
	}
	courses, err := m.store.GetCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}
	byID := make(map[string]int, len(courses))
	for i := range courses {
		byID[courses[i].ID] = i
	}

	result := make([]WithCourse, 0, len(enrollments))
	for _, e := range enrollments {
		wc := WithCourse{Enrollment: e}
		if i, ok := byID[e.CourseID]; ok {
			wc.Course = &courses[i]
		}
		result = append(result, wc)
	}
	return result, nil
}
