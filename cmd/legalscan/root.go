// Package main provides the entry point for the legalscan CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/legalscan/legalscan/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for legalscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legalscan",
		Short: "Crawl and analyze legal documents on websites",
		Long: `legalscan crawls websites for legal documents such as privacy policies,
terms of service, and user agreements. Found documents are extracted,
cached, and analyzed with LLM providers to produce summaries and
text-mining metrics.

Documents and analyses are cached locally, so repeat crawls of the same
site are served from the cache without re-fetching or re-analyzing.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewDocumentsCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// The logger sanitizes provider credentials before they reach the output.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}
