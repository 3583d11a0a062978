// Package cmd provides Cobra CLI commands for recall.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/cli"
	"github.com/bnema/recall/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "recall",
		Short: "Fuzzy search over your browser history",
		Long: `Recall - rank browser history as you type.

Recall loads history from its own database, a Chromium or Firefox profile,
or a JSON export, and ranks it with a fuzzy matcher tuned for URLs and titles.

Use 'recall pick' for the interactive picker, 'recall search' for one-shot
queries, or 'recall live' to drive the search from another program.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{ConfigFile: configFile, LogLevel: logLevel})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			closeApp()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/recall/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRun is skipped when RunE fails.
	closeApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func closeApp() {
	if app != nil {
		_ = app.Close()
		app = nil
	}
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}
