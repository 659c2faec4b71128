package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Manage tracked stories",
		RunE:  runStoriesList,
	}

	cmd.AddCommand(
		newStoriesListCmd(),
		newStoriesAddCmd(),
		newStoriesRemoveCmd(),
	)

	return cmd
}

func newStoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tracked stories",
		RunE:  runStoriesList,
	}
}

func runStoriesList(cmd *cobra.Command, args []string) error {
	return withDeps(cmd.Context(), func(d *Deps) error {
		infos, err := d.StoryHandler.HandleList(cmd.Context())
		if err != nil {
			return err
		}

		if len(infos) == 0 {
			fmt.Println("No stories tracked.")
			fmt.Println("Use 'novelstate stories add TITLE' to track a story.")
			return nil
		}

		fmt.Printf("%-25s %-30s %8s %8s\n", "ID", "TITLE", "CHAPTERS", "CACHED")
		fmt.Printf("%-25s %-30s %8s %8s\n", "--", "-----", "--------", "------")
		for _, info := range infos {
			fmt.Printf("%-25s %-30s %8d %8d\n", info.ID, info.Title, info.Chapters, info.Cached)
		}
		return nil
	})
}

func newStoriesAddCmd() *cobra.Command {
	var (
		sourceURL string
		chapters  int
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Track a new story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				id, err := d.StoryHandler.HandleAdd(cmd.Context(), args[0], sourceURL, chapters)
				if err != nil {
					return err
				}
				fmt.Printf("Tracking %q as %s\n", args[0], id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceURL, "url", "u", "", "Source URL the chapters are fetched from")
	cmd.Flags().IntVarP(&chapters, "chapters", "c", 0, "Total chapter count, if known")

	return cmd
}

func newStoriesRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Stop tracking a story and delete its cached state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("removing %s deletes all cached chapters and snapshots; re-run with --yes to confirm", args[0])
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.StoryHandler.HandleRemove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}
