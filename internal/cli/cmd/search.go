package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/domain/entity"
)

var (
	searchLimit       int
	searchActiveURL   string
	searchActiveTitle string
	searchJSON        bool
	recentLimit       int
	recentJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Rank history against a query",
	Long: `Rank history against a query and print the best matches.

With --active-url the given page is treated as the one currently open: it is
listed first when the query is empty and gets a bonus when it matches.

Examples:
  recall search gh issues
  recall search --json --limit 5 go doc
  recall search --active-url https://go.dev --active-title Go go`,
	RunE: runSearch,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently visited entries",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recentCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum results (default search.max_results)")
	searchCmd.Flags().StringVar(&searchActiveURL, "active-url", "", "URL of the page currently open")
	searchCmd.Flags().StringVar(&searchActiveTitle, "active-title", "", "title of the page currently open")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")

	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 0, "maximum results (default search.max_results)")
	recentCmd.Flags().BoolVar(&recentJSON, "json", false, "output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	if searchActiveURL != "" {
		app.Active.SetDefault(entity.NewVisit(searchActiveURL, searchActiveTitle))
	}

	out, err := app.History.Search(app.Ctx(), usecase.SearchInput{
		Query: strings.Join(args, " "),
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}

	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), out.Results)
	}
	return writeResults(cmd.OutOrStdout(), out.Results, time.Now())
}

func runRecent(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	out, err := app.History.Recent(app.Ctx(), usecase.RecentInput{Limit: recentLimit})
	if err != nil {
		return err
	}

	if recentJSON {
		return writeJSON(cmd.OutOrStdout(), out.Results)
	}
	return writeResults(cmd.OutOrStdout(), out.Results, time.Now())
}
