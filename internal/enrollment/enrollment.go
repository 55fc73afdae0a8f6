// Package enrollment implements the enrollment lifecycle: enrolling, watching videos,
// submitting the course test and awarding points.
package enrollment

import (
	"encoding/json"
	"time"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
)

const (
	PassThreshold     = 70.0
	VideoPoints       = 25
	PerfectScoreBonus = 20
	MaxVideoIDLength  = 128
)

// TestOutcome is the stored result of the course test. Progress and Status derive from it.
type TestOutcome string

const (
	OutcomeNotAttempted TestOutcome = "not_attempted"
	OutcomeFailed       TestOutcome = "failed"
	OutcomePassed       TestOutcome = "passed"
)

// Status is the derived lifecycle status of an enrollment.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Enrollment is a user's relationship to one course.
type Enrollment struct {
	ID                string              `db:"id" json:"id"`
	UserID            string              `db:"user_id" json:"userId"`
	CourseID          string              `db:"course_id" json:"courseId"`
	VideosCompleted   database.StringList `db:"videos_completed" json:"videosCompleted"`
	TestOutcome       TestOutcome         `db:"test_outcome" json:"testOutcome"`
	TestScore         *float64            `db:"test_score" json:"testScore"`
	CompletionAwarded bool                `db:"completion_awarded" json:"completionAwarded"`
	EnrolledAt        time.Time           `db:"enrolled_at" json:"enrolledAt"`
	CompletedAt       *time.Time          `db:"completed_at" json:"completedAt"`
	LastAccessedAt    time.Time           `db:"last_accessed_at" json:"lastAccessedAt"`
	Revision          int64               `db:"revision" json:"revision"`
}

// TestCompleted reports whether a test has been submitted.
func (e Enrollment) TestCompleted() bool {
	return e.TestOutcome == OutcomeFailed || e.TestOutcome == OutcomePassed
}

// Status is completed exactly when the last submitted test passed.
func (e Enrollment) Status() Status {
	if e.TestOutcome == OutcomePassed {
		return StatusCompleted
	}
	return StatusActive
}

// Progress is 100 after a pass, 75 after a fail and 0 before any submission.
func (e Enrollment) Progress() float64 {
	switch e.TestOutcome {
	case OutcomePassed:
		return 100
	case OutcomeFailed:
		return 75
	}
	return 0
}

// HasVideo reports whether videoID was already marked complete.
func (e Enrollment) HasVideo(videoID string) bool {
	return e.VideosCompleted.Contains(videoID)
}

type enrollmentJSON Enrollment

// MarshalJSON adds the derived progress, status and testCompleted fields.
func (e Enrollment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		enrollmentJSON
		Progress      float64 `json:"progress"`
		Status        Status  `json:"status"`
		TestCompleted bool    `json:"testCompleted"`
	}{
		enrollmentJSON: enrollmentJSON(e),
		Progress:       e.Progress(),
		Status:         e.Status(),
		TestCompleted:  e.TestCompleted(),
	})
}

// WithCourse pairs an enrollment with its course.
type WithCourse struct {
	Enrollment Enrollment     `json:"enrollment"`
	Course     *course.Course `json:"course"`
}

// SubmitResult is the outcome of SubmitTest.
type SubmitResult struct {
	Enrollment    *Enrollment `json:"enrollment"`
	Passed        bool        `json:"passed"`
	PointsAwarded int         `json:"pointsAwarded"`
}
