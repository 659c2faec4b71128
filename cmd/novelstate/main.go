// Package main provides the entry point for the novelstate CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalStory string
	verbose     bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "novelstate",
		Short:   "Track character and world state across web novel chapters",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalStory, "story", "s", "", "Story to operate on (required for most commands)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newOpenCmd(),
		newReanalyzeCmd(),
		newImportCmd(),
		newShowCmd(),
		newStoriesCmd(),
		newSyncCmd(),
		newSearchCmd(),
		newIndexCmd(),
		newExportCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
