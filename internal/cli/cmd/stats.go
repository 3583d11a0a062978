package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store and cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	stats := app.History.Stats()
	if statsJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s (%s)\n", app.Config.Source.Kind, app.Config.Source.Path)
	fmt.Fprintf(tw, "entries\t%d / %d\n", stats.Entries, stats.Capacity)
	fmt.Fprintf(tw, "recent cached\t%d\n", stats.RecentCached)
	fmt.Fprintf(tw, "generation\t%d\n", stats.Generation)
	fmt.Fprintf(tw, "narrowing\t%d/%d queries, %d hits, %d misses\n",
		stats.NarrowingQueries, stats.NarrowingSize, stats.NarrowingHits, stats.NarrowingMisses)
	return tw.Flush()
}
