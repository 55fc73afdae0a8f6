// Package account provides learner accounts, the points ledger and the leaderboard.
package account

import (
	"errors"
	"time"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyAwarded is returned when a ledger entry for the same event already exists.
	ErrAlreadyAwarded = errors.New("points already awarded")
)

// User is a learner. Point counters change only through AwardPoints.
type User struct {
	ID               string              `db:"id" json:"id" yaml:"id"`
	Email            string              `db:"email" json:"email" yaml:"email"`
	DisplayName      string              `db:"display_name" json:"displayName" yaml:"display_name"`
	SkillLevel       course.Difficulty   `db:"skill_level" json:"skillLevel" yaml:"skill_level"`
	PreferredTopics  database.StringList `db:"preferred_topics" json:"preferredTopics" yaml:"preferred_topics"`
	TotalPoints      int                 `db:"total_points" json:"totalPoints" yaml:"-"`
	CoursesCompleted int                 `db:"courses_completed" json:"coursesCompleted" yaml:"-"`
	CreatedAt        time.Time           `db:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updatedAt" yaml:"-"`
}

// Reason identifies what earned a ledger entry.
type Reason string

const (
	ReasonVideoComplete  Reason = "video_complete"
	ReasonCourseComplete Reason = "course_complete"
)

// PointsAward is one points ledger entry. (EnrollmentID, Reason, Reference) is unique.
type PointsAward struct {
	UserID                string
	EnrollmentID          string
	Reason                Reason
	Reference             string
	Points                int
	CoursesCompletedDelta int
	CreatedAt             time.Time
}

// LeaderboardEntry is a ranked user.
type LeaderboardEntry struct {
	Rank             int    `db:"-" json:"rank"`
	UserID           string `db:"id" json:"userId"`
	DisplayName      string `db:"display_name" json:"displayName"`
	TotalPoints      int    `db:"total_points" json:"totalPoints"`
	CoursesCompleted int    `db:"courses_completed" json:"coursesCompleted"`
}
