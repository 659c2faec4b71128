package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/novelstate/internal/application/handlers"
	"github.com/ersonp/novelstate/internal/domain/services"
)

func newShowCmd() *cobra.Command {
	var (
		chapter   int
		locations bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current story state",
		Long: "Prints the cumulative state of a story, or the state as frozen at a specific " +
			"chapter with --chapter.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				storyID, err := requireStory(d.Stories)
				if err != nil {
					return err
				}

				var result *handlers.ShowResult
				if chapter > 0 {
					ref, err := storyRef(d.Stories, chapter)
					if err != nil {
						return err
					}
					result, err = d.ShowHandler.HandleChapter(cmd.Context(), ref)
					if err != nil {
						return err
					}
				} else {
					result, err = d.ShowHandler.Handle(cmd.Context(), storyID)
					if err != nil {
						return err
					}
				}

				if result.Snapshot.IsEmpty() {
					fmt.Printf("No analyzed state for %s yet. Open a chapter first.\n", storyID)
					return nil
				}

				if locations {
					fmt.Print(formatLocationTree(result.LocationTree, 0))
					return nil
				}

				printSnapshot(result.Snapshot)
				if len(result.Chapters) > 0 {
					fmt.Printf("\nCached chapters: %s\n", formatChapterList(result.Chapters))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&chapter, "chapter", "c", 0, "Show the state frozen at this chapter")
	cmd.Flags().BoolVar(&locations, "locations", false, "Show the location hierarchy instead of the full state")

	return cmd
}

func formatLocationTree(nodes []*services.LocationNode, depth int) string {
	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(node.Location.Name)
		if node.Location.Tier != "" {
			fmt.Fprintf(&sb, " (%s)", node.Location.Tier)
		}
		sb.WriteString("\n")
		sb.WriteString(formatLocationTree(node.Children, depth+1))
	}
	return sb.String()
}

// formatChapterList compresses consecutive indexes into ranges, so 2446
// cached chapters don't flood the terminal.
func formatChapterList(indexes []int) string {
	if len(indexes) == 0 {
		return ""
	}

	var parts []string
	start, prev := indexes[0], indexes[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, idx := range indexes[1:] {
		if idx == prev+1 {
			prev = idx
			continue
		}
		flush()
		start, prev = idx, idx
	}
	flush()
	return strings.Join(parts, ", ")
}
