package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/coursely/internal/cli"
	"github.com/at-ishikawa/coursely/internal/client"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/server"
)

// newClient builds an API client from the config. userOverride, when set, replaces client.user_id.
func newClient(userOverride string, requireUser bool) (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userID := cfg.Client.UserID
	if userOverride != "" {
		userID = userOverride
	}
	if requireUser && userID == "" {
		return nil, fmt.Errorf("no user id: pass --user or set COURSELY_USER_ID")
	}
	log.Debug("api client", "base_url", cfg.Client.BaseURL, "user_id", userID)
	return client.New(cfg.Client.BaseURL, userID, time.Duration(cfg.Client.TimeoutSeconds)*time.Second), nil
}

func newCoursesCommand() *cobra.Command {
	var (
		category   string
		difficulty DifficultyFlag
		limit      int
		offset     int
	)
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List active courses, highest rated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient("", false)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			courses, err := c.ListCourses(cmd.Context(), server.ListCoursesRequest{
				Category:   category,
				Difficulty: course.Difficulty(difficulty),
				Limit:      limit,
				Offset:     offset,
			})
			if err != nil {
				return fmt.Errorf("list courses: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintCourses(courses)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only courses in this category")
	cmd.Flags().Var(&difficulty, "difficulty", "only courses of this difficulty (beginner, intermediate, advanced)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of courses (server default 20)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of courses to skip")
	return cmd
}

func newCourseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "course <course-id>",
		Short: "Show a course and its videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient("", false)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			got, err := c.GetCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get course: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintCourse(got)
		},
	}
}

func newEnrollCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "enroll <course-id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			e, err := c.Enroll(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("enroll: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintEnrollment(e)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	return cmd
}

func newEnrollmentsCommand() *cobra.Command {
	var (
		userID string
		status StatusFlag
	)
	cmd := &cobra.Command{
		Use:   "enrollments",
		Short: "List your enrollments, most recently accessed first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			enrollments, err := c.ListEnrollments(cmd.Context(), enrollment.Status(status))
			if err != nil {
				return fmt.Errorf("list enrollments: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintEnrollments(enrollments)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	cmd.Flags().Var(&status, "status", "only enrollments with this status (active, completed)")
	return cmd
}

func newWatchCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "watch <enrollment-id> <video-id>",
		Short: "Mark a video as watched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			e, err := c.MarkVideoComplete(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("mark video complete: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintEnrollment(e)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	return cmd
}

func newSubmitCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "submit <enrollment-id> <score>",
		Short: "Submit a test score between 0 and 100",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[1], err)
			}

			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			res, err := c.SubmitTest(cmd.Context(), args[0], score)
			if err != nil {
				return fmt.Errorf("submit test: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintSubmitResult(res)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	return cmd
}

func newRecommendCommand() *cobra.Command {
	var (
		userID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend courses you are not enrolled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			recommendations, err := c.Recommend(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintRecommendations(recommendations)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of recommendations (server default)")
	return cmd
}

func newLeaderboardCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top learners by points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient("", false)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			entries, err := c.Leaderboard(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintLeaderboard(entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of entries (server default 50)")
	return cmd
}

func newInteractCommand() *cobra.Command {
	var (
		userID    string
		timeSpent int
	)
	cmd := &cobra.Command{
		Use:   "interact <course-id> <view|enroll|like|complete|rate|share>",
		Short: "Record an interaction with a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var interactionType InteractionTypeFlag
			if err := interactionType.Set(args[1]); err != nil {
				return err
			}
			var spent *int
			if cmd.Flags().Changed("time-spent") {
				spent = &timeSpent
			}

			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			i, err := c.RecordInteraction(cmd.Context(), args[0], interaction.Type(interactionType), spent)
			if err != nil {
				return fmt.Errorf("record interaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s (%s)\n", i.InteractionType, i.CourseID, i.ID)
			return nil
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	cmd.Flags().IntVar(&timeSpent, "time-spent", 0, "seconds spent on the course")
	return cmd
}

func newAnalyticsCommand() *cobra.Command {
	var (
		userID string
		year   int
		month  int
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize your learning activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year")
			}

			c, err := newClient(userID, true)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			analytics, err := c.UserAnalytics(cmd.Context(), year, month)
			if err != nil {
				return fmt.Errorf("analytics: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintAnalytics(analytics)
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	cmd.Flags().IntVar(&year, "year", 0, "only list periods in this year")
	cmd.Flags().IntVar(&month, "month", 0, "only list periods in this month (requires --year)")
	return cmd
}
