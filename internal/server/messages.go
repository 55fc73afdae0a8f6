package server

import (
	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/statistics"
)

const (
	defaultCoursesLimit = 20
	maxListLimit        = 100
)

// ListCoursesRequest filters the active catalog. A zero Limit means 20.
type ListCoursesRequest struct {
	Category   string            `json:"category" validate:"max=100"`
	Difficulty course.Difficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Limit      int               `json:"limit" validate:"min=0,max=100"`
	Offset     int               `json:"offset" validate:"min=0"`
}

// ListCoursesResponse holds courses ordered by rating.
type ListCoursesResponse struct {
	Courses []course.Course `json:"courses"`
}

// GetCourseRequest identifies a course.
type GetCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// GetCourseResponse holds the course with its videos.
type GetCourseResponse struct {
	Course *course.Course `json:"course"`
}

// EnrollRequest enrolls the calling user in CourseID.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// EnrollResponse holds the new enrollment.
type EnrollResponse struct {
	Enrollment *enrollment.Enrollment `json:"enrollment"`
}

// ListEnrollmentsRequest optionally filters the caller's enrollments by status.
type ListEnrollmentsRequest struct {
	Status enrollment.Status `json:"status" validate:"omitempty,oneof=active completed"`
}

// ListEnrollmentsResponse holds enrollments, most recently accessed first.
type ListEnrollmentsResponse struct {
	Enrollments []enrollment.WithCourse `json:"enrollments"`
}

// MarkVideoCompleteRequest records VideoID as watched.
type MarkVideoCompleteRequest struct {
	EnrollmentID string `json:"enrollmentId" validate:"required"`
	VideoID      string `json:"videoId" validate:"required,max=128"`
}

// MarkVideoCompleteResponse holds the updated enrollment.
type MarkVideoCompleteResponse struct {
	Enrollment *enrollment.Enrollment `json:"enrollment"`
}

// SubmitTestRequest records a test score between 0 and 100.
type SubmitTestRequest struct {
	EnrollmentID string `json:"enrollmentId" validate:"required"`
	// Score is a pointer so a missing score is reported instead of read as 0.
	Score *float64 `json:"score" validate:"required,min=0,max=100"`
}

// SubmitTestResponse reports the outcome and the points earned by this submission.
type SubmitTestResponse struct {
	Enrollment    *enrollment.Enrollment `json:"enrollment"`
	Passed        bool                   `json:"passed"`
	PointsAwarded int                    `json:"pointsAwarded"`
}

// RecommendRequest asks for up to Limit recommendations. A zero Limit uses the configured default.
type RecommendRequest struct {
	Limit int `json:"limit" validate:"min=0,max=50"`
}

// RecommendResponse holds recommendations, best match first.
type RecommendResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// GetLeaderboardRequest asks for the top Limit users.
type GetLeaderboardRequest struct {
	Limit int `json:"limit" validate:"min=0,max=100"`
}

// GetLeaderboardResponse holds ranked entries.
type GetLeaderboardResponse struct {
	Entries []account.LeaderboardEntry `json:"entries"`
}

// RecordInteractionRequest records that the caller interacted with a course.
type RecordInteractionRequest struct {
	CourseID        string           `json:"courseId" validate:"required"`
	InteractionType interaction.Type `json:"interactionType" validate:"required,oneof=view enroll like complete rate share"`
	TimeSpent       *int             `json:"timeSpent" validate:"omitempty,min=0"`
}

// RecordInteractionResponse holds the stored interaction.
type RecordInteractionResponse struct {
	Interaction *interaction.Interaction `json:"interaction"`
}

// GetUserAnalyticsRequest optionally restricts the listed periods to Year and Month.
type GetUserAnalyticsRequest struct {
	Year  int `json:"year" validate:"omitempty,min=1970,max=9999"`
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
}

// GetUserAnalyticsResponse holds the caller's learning summary.
type GetUserAnalyticsResponse struct {
	Analytics statistics.Analytics `json:"analytics"`
}
