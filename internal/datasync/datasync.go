// Package datasync provides import/export orchestration between YAML catalog files and the database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/interaction"
)

// Catalog is the YAML seed file layout.
type Catalog struct {
	Courses      []course.Course      `yaml:"courses"`
	Users        []account.User       `yaml:"users,omitempty"`
	Interactions []CatalogInteraction `yaml:"interactions,omitempty"`
}

// CatalogInteraction references its course by title so seed files stay readable.
type CatalogInteraction struct {
	UserID      string           `yaml:"user_id"`
	CourseTitle string           `yaml:"course_title"`
	Type        interaction.Type `yaml:"type"`
	TimeSpent   *int             `yaml:"time_spent,omitempty"`
}

// LoadCatalog decodes a catalog, rejecting unknown keys.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}
	return &c, nil
}

// WriteCatalog encodes c as YAML.
func WriteCatalog(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return enc.Close()
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	CoursesNew          int
	CoursesSkipped      int
	CoursesUpdated      int
	UsersNew            int
	UsersSkipped        int
	UsersUpdated        int
	InteractionsNew     int
	InteractionWarnings int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer writes catalog data to the database.
type Importer struct {
	courseRepo      course.CourseRepository
	userRepo        account.UserRepository
	interactionRepo interaction.Repository
	writer          io.Writer
	now             func() time.Time
}

// NewImporter creates a new Importer.
func NewImporter(courseRepo course.CourseRepository, userRepo account.UserRepository, interactionRepo interaction.Repository, writer io.Writer) *Importer {
	return &Importer{
		courseRepo:      courseRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		writer:          writer,
		now:             time.Now,
	}
}

// Import imports courses, then users, then interactions. Courses are matched by title and users by email.
func (imp *Importer) Import(ctx context.Context, catalog *Catalog, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	courseIDs := make(map[string]string, len(catalog.Courses))
	for i := range catalog.Courses {
		id, err := imp.importCourse(ctx, catalog.Courses[i], opts, &result)
		if err != nil {
			return nil, fmt.Errorf("importCourse(%s) > %w", catalog.Courses[i].Title, err)
		}
		courseIDs[catalog.Courses[i].Title] = id
	}

	for i := range catalog.Users {
		if err := imp.importUser(ctx, catalog.Users[i], opts, &result); err != nil {
			return nil, fmt.Errorf("importUser(%s) > %w", catalog.Users[i].Email, err)
		}
	}

	if err := imp.importInteractions(ctx, catalog.Interactions, courseIDs, opts, &result); err != nil {
		return nil, fmt.Errorf("importInteractions() > %w", err)
	}
	return &result, nil
}

func (imp *Importer) importCourse(ctx context.Context, c course.Course, opts ImportOptions, result *ImportResult) (string, error) {
	if c.PointsValue <= 0 {
		c.PointsValue = course.DefaultPointsValue
	}
	for i := range c.Videos {
		c.Videos[i].SortOrder = i
	}

	existing, err := imp.courseRepo.FindByTitle(ctx, c.Title)
	if err != nil {
		return "", fmt.Errorf("FindByTitle(%s) > %w", c.Title, err)
	}

	if existing != nil {
		if !opts.UpdateExisting {
			fmt.Fprintf(imp.writer, "  [SKIP]  course %q\n", c.Title)
			result.CoursesSkipped++
			return existing.ID, nil
		}
		c.ID = existing.ID
		if !opts.DryRun {
			if err := imp.courseRepo.Update(ctx, &c); err != nil {
				return "", fmt.Errorf("Update() > %w", err)
			}
		}
		fmt.Fprintf(imp.writer, "  [UPDATE]  course %q\n", c.Title)
		result.CoursesUpdated++
		return c.ID, nil
	}

	if !opts.DryRun {
		if err := imp.courseRepo.Create(ctx, &c); err != nil {
			return "", fmt.Errorf("Create() > %w", err)
		}
	}
	fmt.Fprintf(imp.writer, "  [NEW]  course %q (%d videos)\n", c.Title, len(c.Videos))
	result.CoursesNew++
	return c.ID, nil
}

func (imp *Importer) importUser(ctx context.Context, u account.User, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.userRepo.FindByEmail(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("FindByEmail(%s) > %w", u.Email, err)
	}

	if existing != nil {
		if !opts.UpdateExisting {
			fmt.Fprintf(imp.writer, "  [SKIP]  user %q\n", u.Email)
			result.UsersSkipped++
			return nil
		}
		u.ID = existing.ID
		if !opts.DryRun {
			if err := imp.userRepo.UpdateProfile(ctx, &u); err != nil {
				return fmt.Errorf("UpdateProfile() > %w", err)
			}
		}
		fmt.Fprintf(imp.writer, "  [UPDATE]  user %q\n", u.Email)
		result.UsersUpdated++
		return nil
	}

	if u.ID == "" {
		u.ID = u.Email
	}
	if !opts.DryRun {
		if err := imp.userRepo.Create(ctx, &u); err != nil {
			return fmt.Errorf("Create() > %w", err)
		}
	}
	fmt.Fprintf(imp.writer, "  [NEW]  user %q\n", u.Email)
	result.UsersNew++
	return nil
}

func (imp *Importer) importInteractions(ctx context.Context, items []CatalogInteraction, courseIDs map[string]string, opts ImportOptions, result *ImportResult) error {
	now := imp.now().UTC()
	batch := make([]interaction.Interaction, 0, len(items))
	for _, item := range items {
		courseID, ok := courseIDs[item.CourseTitle]
		if !ok || courseID == "" {
			fmt.Fprintf(imp.writer, "  [WARN]  course not found for interaction %q\n", item.CourseTitle)
			result.InteractionWarnings++
			continue
		}
		if !item.Type.Valid() {
			fmt.Fprintf(imp.writer, "  [WARN]  unknown interaction type %q\n", item.Type)
			result.InteractionWarnings++
			continue
		}
		batch = append(batch, interaction.Interaction{
			UserID:          item.UserID,
			CourseID:        courseID,
			InteractionType: item.Type,
			TimeSpent:       item.TimeSpent,
			CreatedAt:       now,
		})
	}
	if len(batch) == 0 {
		return nil
	}
	if !opts.DryRun {
		if err := imp.interactionRepo.BatchCreate(ctx, batch); err != nil {
			return fmt.Errorf("BatchCreate() > %w", err)
		}
	}
	result.InteractionsNew += len(batch)
	return nil
}

// Exporter reads the catalog from the database.
type Exporter struct {
	courseRepo course.CourseRepository
}

// NewExporter creates a new Exporter.
func NewExporter(courseRepo course.CourseRepository) *Exporter {
	return &Exporter{courseRepo: courseRepo}
}

// Export returns every course, active or not, as a Catalog.
func (e *Exporter) Export(ctx context.Context) (*Catalog, error) {
	courses, err := e.courseRepo.List(ctx, course.Filters{IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("List() > %w", err)
	}
	return &Catalog{Courses: courses}, nil
}
