package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/bootstrap"
	"github.com/at-ishikawa/coursely/internal/config"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/logger"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "coursely-server",
		Short:         "Coursely learning service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("logger.New() > %w", err)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}

	mux, err := newMux(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.CORS(cfg.Server.CORS.AllowedOrigins, h2c.NewHandler(mux, &http2.Server{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := bootstrap.New(log)
	app.AddShutdownHook("database", func(context.Context) error {
		return db.Close()
	})
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func newMux(cfg *config.Config, db *sqlx.DB, log *logger.Logger) (*http.ServeMux, error) {
	courses := course.NewDBCourseRepository(db)
	users := account.NewDBUserRepository(db)
	interactions := interaction.NewDBRepository(db)
	store := enrollment.NewDBStore(db, courses)
	manager := enrollment.NewManager(store)
	recommender := recommend.NewService(users, courses, interactions, store)

	courseHandler, err := server.NewCourseHandler(courses, log)
	if err != nil {
		return nil, fmt.Errorf("server.NewCourseHandler() > %w", err)
	}
	enrollmentHandler, err := server.NewEnrollmentHandler(manager, cfg.Lifecycle.ConflictRetryAttempts, log)
	if err != nil {
		return nil, fmt.Errorf("server.NewEnrollmentHandler() > %w", err)
	}
	learnerHandler, err := server.NewLearnerHandler(cfg, recommender, users, courses, interactions, manager, log)
	if err != nil {
		return nil, fmt.Errorf("server.NewLearnerHandler() > %w", err)
	}

	mux := http.NewServeMux()
	courseHandler.Register(mux)
	enrollmentHandler.Register(mux)
	learnerHandler.Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux, nil
}
