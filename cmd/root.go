package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "benchscan",
		Short: "Find your contributions in SWE-bench style datasets",
		Long: `A CLI tool that resolves whether a GitHub identity's activity shows
up in benchmark datasets derived from GitHub issues and pull requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add analyze flags to root so `benchscan` and `benchscan analyze`
	// work identically
	addAnalyzeFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdAnalyze(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
