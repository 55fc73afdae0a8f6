package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/coursely/internal/database"
)

// Filters narrows a catalog listing. A zero Limit returns every matching course.
type Filters struct {
	Category        string
	Difficulty      Difficulty
	IncludeInactive bool
	Limit           int
	Offset          int
}

//go:generate mockgen -source=repository.go -destination=../mocks/course/mock_repository.go -package=mock_course

// CourseRepository defines operations for reading and maintaining the catalog.
type CourseRepository interface {
	FindByID(ctx context.Context, id string) (*Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]Course, error)
	FindByTitle(ctx context.Context, title string) (*Course, error)
	List(ctx context.Context, filters Filters) ([]Course, error)
	Create(ctx context.Context, c *Course) error
	Update(ctx context.Context, c *Course) error
}

// DBCourseRepository implements CourseRepository using MySQL.
type DBCourseRepository struct {
	db *sqlx.DB
}

// NewDBCourseRepository creates a new DBCourseRepository.
func NewDBCourseRepository(db *sqlx.DB) *DBCourseRepository {
	return &DBCourseRepository{db: db}
}

// FindByID returns the course with its videos, or ErrNotFound.
func (r *DBCourseRepository) FindByID(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := r.db.GetContext(ctx, &c, "SELECT * FROM courses WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(course) > %w", err)
	}
	courses := []Course{c}
	if err := r.loadRelations(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// FindByIDs returns the courses among ids that exist, in no particular order.
func (r *DBCourseRepository) FindByIDs(ctx context.Context, ids []string) ([]Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM courses WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(courses) > %w", err)
	}
	var courses []Course
	if err := r.db.SelectContext(ctx, &courses, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(courses by ids) > %w", err)
	}
	if err := r.loadRelations(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByTitle returns the course with the given title, or nil if not found.
func (r *DBCourseRepository) FindByTitle(ctx context.Context, title string) (*Course, error) {
	var c Course
	err := r.db.GetContext(ctx, &c, "SELECT * FROM courses WHERE title = ?", title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(course by title) > %w", err)
	}
	courses := []Course{c}
	if err := r.loadRelations(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// List returns courses ordered by rating, highest first.
func (r *DBCourseRepository) List(ctx context.Context, filters Filters) ([]Course, error) {
	var conds []string
	var args []any
	if !filters.IncludeInactive {
		conds = append(conds, "is_active = TRUE")
	}
	if filters.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filters.Category)
	}
	if filters.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, filters.Difficulty)
	}

	query := "SELECT * FROM courses"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rating DESC, id"
	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	var courses []Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(courses) > %w", err)
	}
	if err := r.loadRelations(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Create inserts a course and its videos in a transaction. An empty ID is replaced with a new UUID.
func (r *DBCourseRepository) Create(ctx context.Context, c *Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, title, description, category, difficulty, duration_hours, rating,
			instructor_name, topics, total_enrollments, is_active, points_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.Description, c.Category, c.Difficulty, c.DurationHours, c.Rating,
			c.InstructorName, c.Topics, c.TotalEnrollments, c.IsActive, c.PointsValue)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(insert course) > %w", err)
		}
		return insertVideos(ctx, tx, c)
	})
}

// Update overwrites a course's fields and replaces its video list.
func (r *DBCourseRepository) Update(ctx context.Context, c *Course) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE courses SET title = ?, description = ?, category = ?, difficulty = ?, duration_hours = ?,
			rating = ?, instructor_name = ?, topics = ?, is_active = ?, points_value = ? WHERE id = ?`,
			c.Title, c.Description, c.Category, c.Difficulty, c.DurationHours,
			c.Rating, c.InstructorName, c.Topics, c.IsActive, c.PointsValue, c.ID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update course) > %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM course_videos WHERE course_id = ?", c.ID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete course_videos) > %w", err)
		}
		return insertVideos(ctx, tx, c)
	})
}

func insertVideos(ctx context.Context, tx *sqlx.Tx, c *Course) error {
	if len(c.Videos) == 0 {
		return nil
	}
	columns := []string{"course_id", "video_id", "title", "url", "sort_order"}
	args := make([]any, 0, len(c.Videos)*len(columns))
	for i := range c.Videos {
		c.Videos[i].CourseID = c.ID
		v := c.Videos[i]
		args = append(args, c.ID, v.ID, v.Title, v.URL, v.SortOrder)
	}
	query := database.BuildMultiRowInsert("course_videos", columns, len(c.Videos))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tx.ExecContext(insert course_videos) > %w", err)
	}
	return nil
}

func (r *DBCourseRepository) loadRelations(ctx context.Context, courses []Course) error {
	if len(courses) == 0 {
		return nil
	}

	courseIDs := make([]string, len(courses))
	courseMap := make(map[string]*Course, len(courses))
	for i := range courses {
		courseIDs[i] = courses[i].ID
		courseMap[courses[i].ID] = &courses[i]
	}

	query, args, err := sqlx.In("SELECT * FROM course_videos WHERE course_id IN (?) ORDER BY sort_order", courseIDs)
	if err != nil {
		return fmt.Errorf("sqlx.In(course_videos) > %w", err)
	}
	var videos []Video
	if err := r.db.SelectContext(ctx, &videos, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(course_videos) > %w", err)
	}
	for _, v := range videos {
		c := courseMap[v.CourseID]
		c.Videos = append(c.Videos, v)
	}
	return nil
}
