package recommend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/interaction"
)

//go:generate mockgen -source=service.go -destination=../mocks/recommend/mock_service.go -package=mock_recommend

// EnrolledCourseLister lists the course ids a user is enrolled in.
type EnrolledCourseLister interface {
	ListEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
}

// Service loads a user's scorer inputs and ranks the active catalog.
type Service struct {
	users        account.UserRepository
	courses      course.CourseRepository
	interactions interaction.Repository
	enrollments  EnrolledCourseLister
}

// NewService creates a new Service.
func NewService(users account.UserRepository, courses course.CourseRepository, interactions interaction.Repository, enrollments EnrolledCourseLister) *Service {
	return &Service{
		users:        users,
		courses:      courses,
		interactions: interactions,
		enrollments:  enrollments,
	}
}

// Recommend returns up to limit recommendations for userID. The four inputs are read concurrently.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	var (
		user         *account.User
		catalog      []course.Course
		interactions []interaction.Interaction
		enrolled     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if user, err = s.users.FindByID(gctx, userID); err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if catalog, err = s.courses.List(gctx, course.Filters{}); err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if interactions, err = s.interactions.FindByUser(gctx, userID); err != nil {
			return fmt.Errorf("list interactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if enrolled, err = s.enrollments.ListEnrolledCourseIDs(gctx, userID); err != nil {
			return fmt.Errorf("list enrolled courses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := Profile{SkillLevel: user.SkillLevel, PreferredTopics: user.PreferredTopics}
	return Recommend(profile, catalog, interactions, enrolled, limit)
}
