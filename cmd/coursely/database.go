package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/datasync"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			applied, err := database.Migrate(cmd.Context(), db, schemas.Migrations, "migrations")
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
				return nil
			}
			for _, version := range applied {
				log.Debug("applied migration", "version", version)
				fmt.Fprintf(cmd.OutOrStdout(), "  [APPLIED]  %s\n", version)
			}
			return nil
		},
	}
}

func newCatalogCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog import and export commands",
	}
	catalogCmd.AddCommand(newCatalogImportCommand(), newCatalogExportCommand())
	return catalogCmd
}

func newCatalogImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import courses, users and interactions from a YAML catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := cfg.Catalog.SeedFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no catalog file: pass a path or set catalog.seed_file")
			}

			catalog, err := readCatalogFile(path)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			importer := datasync.NewImporter(
				course.NewDBCourseRepository(db),
				account.NewDBUserRepository(db),
				interaction.NewDBRepository(db),
				cmd.OutOrStdout(),
			)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.Import(ctx, catalog, opts)
			if err != nil {
				return fmt.Errorf("import catalog: %w", err)
			}
			return printImportSummary(cmd.OutOrStdout(), result, opts)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update existing records with new data")
	return cmd
}

func newCatalogExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the course catalog to YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			catalog, err := datasync.NewExporter(course.NewDBCourseRepository(db)).Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}

			if output == "" || output == "-" {
				return datasync.WriteCatalog(cmd.OutOrStdout(), catalog)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := datasync.WriteCatalog(f, catalog); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	return cmd
}

func readCatalogFile(path string) (*datasync.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	catalog, err := datasync.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return catalog, nil
}

func printImportSummary(w io.Writer, result *datasync.ImportResult, opts datasync.ImportOptions) error {
	if _, err := fmt.Fprintln(w, "\nImport Summary:"); err != nil {
		return err
	}
	if opts.DryRun {
		if _, err := fmt.Fprintln(w, "  (dry-run mode, no changes made)"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w,
		"  Courses:       %d new, %d skipped, %d updated\n  Users:         %d new, %d skipped, %d updated\n  Interactions:  %d new, %d warnings\n",
		result.CoursesNew, result.CoursesSkipped, result.CoursesUpdated,
		result.UsersNew, result.UsersSkipped, result.UsersUpdated,
		result.InteractionsNew, result.InteractionWarnings,
	)
	return err
}
