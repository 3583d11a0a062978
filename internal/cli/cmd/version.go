package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", buildInfo, build.RepoURL())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
