package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a story's state snapshots as JSON",
		Long:  "Writes the cumulative story state and every frozen chapter snapshot to a file, or stdout when no output is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				storyID, err := requireStory(d.Stories)
				if err != nil {
					return err
				}

				if output != "" {
					if err := d.ExportHandler.HandleToFile(cmd.Context(), storyID, output); err != nil {
						return err
					}
					fmt.Printf("Exported %s to %s\n", storyID, output)
					return nil
				}

				export, err := d.ExportHandler.Handle(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(export)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
