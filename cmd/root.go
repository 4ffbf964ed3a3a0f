// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-insights",
	Short: "A CLI tool and dashboard for GitHub repository metrics.",
	Long: `repo-insights fetches a GitHub repository's commits, pull requests, issues,
languages and contributors, and derives engagement metrics from them: commit
frequency, PR merge rate, PR review time, issue resolution time, issue age,
contributor activity and the most discussed issues.

Results can be printed as JSON or tables, exported as CSV and chart figures,
queried in plain English, or browsed in a local web dashboard.

The GitHub token is read from GITHUB_TOKEN, optionally via a .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "Optional dotenv file with GITHUB_TOKEN and other settings")
	rootCmd.PersistentFlags().Int("max-pages", config.DefaultMaxPages, "Maximum pages of 100 items fetched per list endpoint")
}
