// Package statistics summarizes a learner's enrollments.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/at-ishikawa/coursely/internal/enrollment"
)

const (
	hoursPerVideo = 1.0
	hoursPerTest  = 0.5
)

// PeriodStatistics holds activity counts for one month ("2025-01").
type PeriodStatistics struct {
	Period     string `json:"period"`
	Enrolled   int    `json:"enrolled"`
	Completed  int    `json:"completed"`
	TestsTaken int    `json:"testsTaken"`
}

// Analytics is the learner dashboard summary.
type Analytics struct {
	TotalCourses       int                `json:"totalCourses"`
	CompletedCourses   int                `json:"completedCourses"`
	TotalLearningHours float64            `json:"totalLearningHours"`
	AverageScore       int                `json:"averageScore"`
	OverallProgress    float64            `json:"overallProgress"`
	Achievements       int                `json:"achievements"`
	Periods            []PeriodStatistics `json:"periods"`
}

type periodData struct {
	enrolled   int
	completed  int
	testsTaken int
}

// Calculate summarizes enrollments. Totals always cover every enrollment; year and month
// (0 means no filter) only restrict which periods are listed.
// Each watched video counts as one learning hour and a submitted test as half an hour.
func Calculate(enrollments []enrollment.Enrollment, year, month int) Analytics {
	var (
		completed  int
		hours      float64
		scoreSum   float64
		scoreCount int
	)
	stats := make(map[string]*periodData)

	for _, e := range enrollments {
		hours += hoursPerVideo * float64(len(e.VideosCompleted))
		if e.TestCompleted() {
			hours += hoursPerTest
			if e.TestScore != nil {
				scoreSum += *e.TestScore
				scoreCount++
			}
		}
		if e.Status() == enrollment.StatusCompleted {
			completed++
		}

		if matchesFilter(e.EnrolledAt.Year(), int(e.EnrolledAt.Month()), year, month) {
			ensurePeriodExists(stats, period(e.EnrolledAt.Year(), int(e.EnrolledAt.Month()))).enrolled++
		}
		if e.CompletedAt != nil && matchesFilter(e.CompletedAt.Year(), int(e.CompletedAt.Month()), year, month) {
			ensurePeriodExists(stats, period(e.CompletedAt.Year(), int(e.CompletedAt.Month()))).completed++
		}
		// The last test submission is the only one stored, so it is attributed to the last access.
		if e.TestCompleted() && matchesFilter(e.LastAccessedAt.Year(), int(e.LastAccessedAt.Month()), year, month) {
			ensurePeriodExists(stats, period(e.LastAccessedAt.Year(), int(e.LastAccessedAt.Month()))).testsTaken++
		}
	}

	analytics := Analytics{
		TotalCourses:       len(enrollments),
		CompletedCourses:   completed,
		TotalLearningHours: math.Round(hours*10) / 10,
		Achievements:       completed,
		Periods:            buildPeriods(stats),
	}
	if scoreCount > 0 {
		analytics.AverageScore = int(math.Round(scoreSum / float64(scoreCount)))
	}
	if len(enrollments) > 0 {
		analytics.OverallProgress = float64(completed) / float64(len(enrollments)) * 100
	}
	return analytics
}

func period(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func ensurePeriodExists(stats map[string]*periodData, p string) *periodData {
	if stats[p] == nil {
		stats[p] = &periodData{}
	}
	return stats[p]
}

func matchesFilter(year, month, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if year != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return month == filterMonth
}

func buildPeriods(stats map[string]*periodData) []PeriodStatistics {
	periods := make([]PeriodStatistics, 0, len(stats))
	for p, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:     p,
			Enrolled:   data.enrolled,
			Completed:  data.completed,
			TestsTaken: data.testsTaken,
		})
	}

	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})
	return periods
}
