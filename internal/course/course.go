// Package course provides the course catalog model and its repository.
package course

import (
	"errors"
	"time"

	"github.com/at-ishikawa/coursely/internal/database"
)

// DefaultPointsValue is the completion reward of a course whose points value is not positive.
const DefaultPointsValue = 100

// ErrNotFound is returned when a course does not exist.
var ErrNotFound = errors.New("course not found")

// Difficulty is both a course difficulty and a learner skill level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Ordinal returns 0, 1 or 2 for known levels and false otherwise.
func (d Difficulty) Ordinal() (int, bool) {
	switch d {
	case Beginner:
		return 0, true
	case Intermediate:
		return 1, true
	case Advanced:
		return 2, true
	}
	return 0, false
}

// Course is a catalog entry.
type Course struct {
	ID               string              `db:"id" json:"id" yaml:"id"`
	Title            string              `db:"title" json:"title" yaml:"title"`
	Description      string              `db:"description" json:"description" yaml:"description"`
	Category         string              `db:"category" json:"category" yaml:"category"`
	Difficulty       Difficulty          `db:"difficulty" json:"difficulty" yaml:"difficulty"`
	DurationHours    int                 `db:"duration_hours" json:"durationHours" yaml:"duration_hours"`
	Rating           float64             `db:"rating" json:"rating" yaml:"rating"`
	InstructorName   string              `db:"instructor_name" json:"instructorName" yaml:"instructor_name"`
	Topics           database.StringList `db:"topics" json:"topics" yaml:"topics"`
	TotalEnrollments int                 `db:"total_enrollments" json:"totalEnrollments" yaml:"total_enrollments"`
	IsActive         bool                `db:"is_active" json:"isActive" yaml:"is_active"`
	PointsValue      int                 `db:"points_value" json:"pointsValue" yaml:"points_value"`
	CreatedAt        time.Time           `db:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updatedAt" yaml:"-"`
	Videos           []Video             `db:"-" json:"videos" yaml:"videos"`
}

// Video is one entry of a course's ordered video list.
type Video struct {
	CourseID  string `db:"course_id" json:"-" yaml:"-"`
	ID        string `db:"video_id" json:"id" yaml:"id"`
	Title     string `db:"title" json:"title" yaml:"title"`
	URL       string `db:"url" json:"url" yaml:"url"`
	SortOrder int    `db:"sort_order" json:"sortOrder" yaml:"sort_order"`
}

// CompletionPoints returns the base points for completing the course.
func (c Course) CompletionPoints() int {
	if c.PointsValue <= 0 {
		return DefaultPointsValue
	}
	return c.PointsValue
}
