package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/coursely/internal/config"
	"github.com/at-ishikawa/coursely/internal/logger"
)

var (
	configFile string
	log        = logger.Nop()
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	log.Sync()
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "coursely",
		Short:         "Operate and use the coursely learning service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(debugMode)
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newMigrateCommand(),
		newCatalogCommand(),
		newCoursesCommand(),
		newCourseCommand(),
		newEnrollCommand(),
		newEnrollmentsCommand(),
		newWatchCommand(),
		newSubmitCommand(),
		newRecommendCommand(),
		newLeaderboardCommand(),
		newInteractCommand(),
		newAnalyticsCommand(),
	)
	return rootCommand
}

// setupLogger replaces the package logger. Debug mode always logs at debug level in development format.
func setupLogger(debugMode bool) error {
	mode := "prod"
	if debugMode {
		mode = "dev"
	}
	l, err := logger.New(mode)
	if err != nil {
		return fmt.Errorf("logger.New() > %w", err)
	}
	log = l
	return nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}
