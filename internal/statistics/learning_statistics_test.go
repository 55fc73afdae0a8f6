package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/enrollment"
)

func scorePtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestCalculate(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	enrollments := []enrollment.Enrollment{
		{
			ID:              "e-1",
			VideosCompleted: database.StringList{"v1", "v2", "v3"},
			TestOutcome:     enrollment.OutcomePassed,
			TestScore:       scorePtr(100),
			EnrolledAt:      jan,
			CompletedAt:     timePtr(feb),
			LastAccessedAt:  feb,
		},
		{
			ID:              "e-2",
			VideosCompleted: database.StringList{"v1"},
			TestOutcome:     enrollment.OutcomeFailed,
			TestScore:       scorePtr(65),
			EnrolledAt:      feb,
			LastAccessedAt:  mar,
		},
		{
			ID:              "e-3",
			VideosCompleted: database.StringList{},
			TestOutcome:     enrollment.OutcomeNotAttempted,
			EnrolledAt:      mar,
			LastAccessedAt:  mar,
		},
	}

	tests := []struct {
		name        string
		enrollments []enrollment.Enrollment
		year        int
		month       int
		want        Analytics
	}{
		{
			name:        "no enrollments",
			enrollments: nil,
			want:        Analytics{Periods: []PeriodStatistics{}},
		},
		{
			name:        "all periods",
			enrollments: enrollments,
			want: Analytics{
				TotalCourses:       3,
				CompletedCourses:   1,
				TotalLearningHours: 5,
				AverageScore:       83,
				OverallProgress:    100.0 / 3,
				Achievements:       1,
				Periods: []PeriodStatistics{
					{Period: "2025-03", Enrolled: 1, TestsTaken: 1},
					{Period: "2025-02", Enrolled: 1, Completed: 1, TestsTaken: 1},
					{Period: "2025-01", Enrolled: 1},
				},
			},
		},
		{
			name:        "month filter only narrows periods",
			enrollments: enrollments,
			year:        2025,
			month:       2,
			want: Analytics{
				TotalCourses:       3,
				CompletedCourses:   1,
				TotalLearningHours: 5,
				AverageScore:       83,
				OverallProgress:    100.0 / 3,
				Achievements:       1,
				Periods: []PeriodStatistics{
					{Period: "2025-02", Enrolled: 1, Completed: 1, TestsTaken: 1},
				},
			},
		},
		{
			name:        "other year",
			enrollments: enrollments,
			year:        2024,
			want: Analytics{
				TotalCourses:       3,
				CompletedCourses:   1,
				TotalLearningHours: 5,
				AverageScore:       83,
				OverallProgress:    100.0 / 3,
				Achievements:       1,
				Periods:            []PeriodStatistics{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.enrollments, tt.year, tt.month)
			assert.Equal(t, tt.want.TotalCourses, got.TotalCourses)
			assert.Equal(t, tt.want.CompletedCourses, got.CompletedCourses)
			assert.InDelta(t, tt.want.TotalLearningHours, got.TotalLearningHours, 1e-9)
			assert.Equal(t, tt.want.AverageScore, got.AverageScore)
			assert.InDelta(t, tt.want.OverallProgress, got.OverallProgress, 1e-9)
			assert.Equal(t, tt.want.Achievements, got.Achievements)
			assert.Equal(t, tt.want.Periods, got.Periods)
		})
	}
}

func TestCalculate_RoundsHoursToOneDecimal(t *testing.T) {
	enrollments := []enrollment.Enrollment{
		{TestOutcome: enrollment.OutcomeFailed, TestScore: scorePtr(40)},
		{TestOutcome: enrollment.OutcomeFailed, TestScore: scorePtr(41)},
		{TestOutcome: enrollment.OutcomeFailed, TestScore: scorePtr(41)},
	}
	got := Calculate(enrollments, 0, 0)
	assert.InDelta(t, 1.5, got.TotalLearningHours, 1e-9)
	assert.Equal(t, 41, got.AverageScore)
	assert.Equal(t, 0.0, got.OverallProgress)
}
