// Package cli renders API results for the coursely command line.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/server"
	"github.com/at-ishikawa/coursely/internal/statistics"
)

// Printer writes human-readable, coloured output.
type Printer struct {
	w      io.Writer
	bold   *color.Color
	italic *color.Color
	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
}

func (p *Printer) PrintCourses(courses []course.Course) error {
	if len(courses) == 0 {
		return p.println("No courses found.")
	}
	for _, c := range courses {
		if _, err := fmt.Fprintf(p.w, "%s  %s  [%s, %s]  rating %.1f  %d pts\n",
			c.ID,
			p.bold.Sprint(c.Title),
			c.Category,
			c.Difficulty,
			c.Rating,
			c.CompletionPoints(),
		); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (p *Printer) PrintCourse(c *course.Course) error {
	if _, err := fmt.Fprintf(p.w, "%s\n  %s\n  by %s · %s · %d hours · topics: %s\n",
		p.bold.Sprint(c.Title),
		p.italic.Sprint(c.Description),
		c.InstructorName,
		c.Difficulty,
		c.DurationHours,
		strings.Join(c.Topics, ", "),
	); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	for _, v := range c.Videos {
		if _, err := fmt.Fprintf(p.w, "  %d. %s (%s)\n", v.SortOrder+1, v.Title, v.ID); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (p *Printer) PrintEnrollment(e *enrollment.Enrollment) error {
	status := p.yellow.Sprint(e.Status())
	if e.Status() == enrollment.StatusCompleted {
		status = p.green.Sprint(e.Status())
	}
	score := "-"
	if e.TestScore != nil {
		score = fmt.Sprintf("%g", *e.TestScore)
	}
	if _, err := fmt.Fprintf(p.w, "%s  course %s  %s  progress %.0f%%  videos %d  test %s (%s)\n",
		e.ID, e.CourseID, status, e.Progress(), len(e.VideosCompleted), e.TestOutcome, score,
	); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (p *Printer) PrintEnrollments(enrollments []enrollment.WithCourse) error {
	if len(enrollments) == 0 {
		return p.println("No enrollments yet.")
	}
	for _, wc := range enrollments {
		if wc.Course != nil {
			if _, err := p.bold.Fprintln(p.w, wc.Course.Title); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
		}
		if err := p.PrintEnrollment(&wc.Enrollment); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) PrintSubmitResult(res *server.SubmitTestResponse) error {
	if res.Passed {
		if _, err := p.green.Fprintf(p.w, "Passed! +%d points\n", res.PointsAwarded); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	} else {
		if _, err := p.red.Fprintf(p.w, "Not passed. A score of %g or more is required.\n", enrollment.PassThreshold); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	if res.Enrollment == nil {
		return nil
	}
	return p.PrintEnrollment(res.Enrollment)
}

func (p *Printer) PrintLeaderboard(entries []account.LeaderboardEntry) error {
	if len(entries) == 0 {
		return p.println("The leaderboard is empty.")
	}
	for _, e := range entries {
		name := e.DisplayName
		if e.Rank <= 3 {
			name = p.bold.Sprint(name)
		}
		if _, err := fmt.Fprintf(p.w, "%3d. %s  %d pts  %d completed\n", e.Rank, name, e.TotalPoints, e.CoursesCompleted); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (p *Printer) PrintRecommendations(recommendations []recommend.Recommendation) error {
	if len(recommendations) == 0 {
		return p.println("No recommendations right now.")
	}
	for _, r := range recommendations {
		scoreColor := p.yellow
		if r.MatchScore >= 70 {
			scoreColor = p.green
		}
		if _, err := fmt.Fprintf(p.w, "%s  %s  %s\n",
			scoreColor.Sprintf("%5.1f%%", r.MatchScore),
			p.bold.Sprint(r.Course.Title),
			p.italic.Sprintf("%s · %s", r.Course.Category, r.Course.Difficulty),
		); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (p *Printer) PrintAnalytics(a statistics.Analytics) error {
	if _, err := fmt.Fprintf(p.w, "Courses: %d enrolled, %d completed (%.0f%%)\nLearning hours: %.1f\nAverage score: %d\nAchievements: %d\n",
		a.TotalCourses, a.CompletedCourses, a.OverallProgress, a.TotalLearningHours, a.AverageScore, a.Achievements,
	); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if len(a.Periods) == 0 {
		return nil
	}
	if _, err := p.bold.Fprintln(p.w, "\nPeriod     Enrolled  Completed  Tests"); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	for _, period := range a.Periods {
		if _, err := fmt.Fprintf(p.w, "%-10s %8d  %9d  %5d\n", period.Period, period.Enrolled, period.Completed, period.TestsTaken); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (p *Printer) println(msg string) error {
	if _, err := fmt.Fprintln(p.w, msg); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}
