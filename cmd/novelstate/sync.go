package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync chapter state with the remote store",
	}

	cmd.AddCommand(newSyncPushCmd(), newSyncPullCmd())

	return cmd
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload all locally cached chapter state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if d.SyncHandler == nil {
					return errors.New("drive sync is not configured (set drive.credentials_file in config.yaml)")
				}
				storyID, err := requireStory(d.Stories)
				if err != nil {
					return err
				}

				result, err := d.SyncHandler.HandlePush(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Printf("Pushed %d chapters of %s\n", result.Pushed, storyID)
				return nil
			})
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Download remote chapter state not analyzed locally",
		Long: "Adopts remote chapters this device has never analyzed. Chapters with a local " +
			"frozen snapshot are never overwritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if d.SyncHandler == nil {
					return errors.New("drive sync is not configured (set drive.credentials_file in config.yaml)")
				}
				storyID, err := requireStory(d.Stories)
				if err != nil {
					return err
				}

				result, err := d.SyncHandler.HandlePull(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Printf("Pulled %d chapters of %s (%d kept local)\n", result.Pulled, storyID, result.Skipped)
				return nil
			})
		},
	}
}
