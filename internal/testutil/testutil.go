// Package testutil provides shared test helpers for creating config files and catalog fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/datasync"
)

// SetupTestConfig creates a minimal config file pointing the client at baseURL.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  host: 127.0.0.1
  port: 3306
  database: coursely_test
  username: coursely
log:
  mode: dev
client:
  base_url: %s
  timeout_seconds: 5
`, baseURL)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CatalogOption configures the catalog fixture.
type CatalogOption func(*datasync.Catalog)

// WithCourse adds a course to the catalog fixture.
func WithCourse(c course.Course) CatalogOption {
	return func(catalog *datasync.Catalog) {
		catalog.Courses = append(catalog.Courses, c)
	}
}

// CreateCatalogFile writes a catalog YAML file to dir and returns its path.
// Without options the catalog holds a single beginner AI course with two videos.
func CreateCatalogFile(t *testing.T, dir string, opts ...CatalogOption) string {
	t.Helper()

	catalog := &datasync.Catalog{}
	for _, opt := range opts {
		opt(catalog)
	}
	if len(catalog.Courses) == 0 {
		catalog.Courses = []course.Course{
			{
				Title:       "Intro to AI",
				Category:    "AI",
				Difficulty:  course.Beginner,
				Rating:      4.5,
				Topics:      database.StringList{"AI", "Python"},
				IsActive:    true,
				PointsValue: 100,
				Videos: []course.Video{
					{ID: "v1", Title: "Welcome", URL: "https://example.com/v1"},
					{ID: "v2", Title: "Search", URL: "https://example.com/v2"},
				},
			},
		}
	}

	path := filepath.Join(dir, "catalog.yml")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()
	require.NoError(t, datasync.WriteCatalog(f, catalog))
	return path
}
