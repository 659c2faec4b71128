package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newReanalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reanalyze <chapter>",
		Short: "Recompute a chapter's frozen state snapshot",
		Long: "Re-runs analysis for a chapter from its cached content, overwriting the frozen " +
			"snapshot. This is the only operation that recomputes an already analyzed chapter.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, err := strconv.Atoi(args[0])
			if err != nil || chapter < 1 {
				return fmt.Errorf("chapter must be a positive number, got %q", args[0])
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				ref, err := storyRef(d.Stories, chapter)
				if err != nil {
					return err
				}

				outcome, err := d.ReanalyzeHandler.Handle(cmd.Context(), ref)
				if err != nil {
					return err
				}

				if outcome.Notice != nil {
					fmt.Printf("! %s\n", outcome.Notice.Message)
					return nil
				}
				fmt.Printf("Re-analyzed chapter %d of %s\n\n", chapter, ref.StoryID)
				printSnapshot(outcome.Snapshot)
				return nil
			})
		},
	}
}
