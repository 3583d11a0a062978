package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/cli"
	"github.com/bnema/recall/internal/domain/entity"
)

var (
	visitTitle string
	pruneDays  int
)

var errNoNativeSource = errors.New("this command needs recall's own database (source.kind = sqlite, source.dialect = recall)")

var visitCmd = &cobra.Command{
	Use:   "visit <url>",
	Short: "Record a visit in recall's database",
	Long: `Record a visit in recall's own database.

The visit count is incremented and the last visit time set to now. An empty
title keeps the stored one.`,
	Args: cobra.ExactArgs(1),
	RunE: runVisit,
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete entries not visited recently",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

func init() {
	rootCmd.AddCommand(visitCmd)
	rootCmd.AddCommand(pruneCmd)

	visitCmd.Flags().StringVarP(&visitTitle, "title", "t", "", "page title")
	pruneCmd.Flags().IntVar(&pruneDays, "days", 90, "delete entries last visited more than this many days ago")
}

func nativeApp() (*cli.App, error) {
	app, err := requireApp()
	if err != nil {
		return nil, err
	}
	if app.Native == nil {
		return nil, errNoNativeSource
	}
	return app, nil
}

func runVisit(cmd *cobra.Command, args []string) error {
	app, err := nativeApp()
	if err != nil {
		return err
	}

	out, err := app.History.RecordVisit(app.Ctx(), entity.NewVisit(args[0], visitTitle))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d visits)\n", out.Entry.URL, out.Entry.VisitCount)
	return err
}

func runPrune(cmd *cobra.Command, _ []string) error {
	if pruneDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	app, err := nativeApp()
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-time.Duration(pruneDays) * 24 * time.Hour)
	n, err := app.Native.DeleteOlderThan(app.Ctx(), cutoff)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
	return err
}
