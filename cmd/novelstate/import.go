package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import <chapter>",
		Short: "Import chapter text manually",
		Long: "Stores chapter text supplied by hand (from a file or stdin) and analyzes it. " +
			"This is the fallback when the origin site cannot be fetched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, err := strconv.Atoi(args[0])
			if err != nil || chapter < 1 {
				return fmt.Errorf("chapter must be a positive number, got %q", args[0])
			}

			content, err := readImportContent(file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("no chapter text provided")
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				ref, err := storyRef(d.Stories, chapter)
				if err != nil {
					return err
				}

				outcome, err := d.OpenHandler.HandleImport(cmd.Context(), ref, content)
				if err != nil {
					return err
				}

				fmt.Printf("Imported chapter %d of %s\n", chapter, ref.StoryID)
				if outcome.Notice != nil {
					fmt.Printf("! %s\n", outcome.Notice.Message)
					return nil
				}
				fmt.Println()
				printSnapshot(outcome.Snapshot)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read chapter text from a file instead of stdin")

	return cmd
}

func readImportContent(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
