package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/novelstate/internal/application/handlers"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Search the story's entities semantically",
		Long:  "Performs semantic search over the indexed entities of a story (items, skills, NPCs, factions, locations).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSearchHandler(cmd.Context(), func(h *handlers.SearchHandler) error {
				if globalStory == "" {
					return fmt.Errorf("story is required (use --story flag)")
				}

				result, err := h.Handle(cmd.Context(), globalStory, args[0], limit)
				if err != nil {
					return err
				}

				if len(result.Entities) == 0 {
					fmt.Println("No entities found.")
					return nil
				}

				fmt.Printf("Found %d entities:\n\n", len(result.Entities))
				for i, ent := range result.Entities {
					fmt.Printf("%d. [%s] %s", i+1, ent.Category, ent.Name)
					if ent.Status != "" {
						fmt.Printf(" (%s)", ent.Status)
					}
					fmt.Println()
					if ent.Description != "" {
						fmt.Printf("   %s\n", ent.Description)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")

	return cmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index from the story state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSearchHandler(cmd.Context(), func(h *handlers.SearchHandler) error {
				if globalStory == "" {
					return fmt.Errorf("story is required (use --story flag)")
				}

				count, err := h.HandleIndex(cmd.Context(), globalStory)
				if err != nil {
					return err
				}
				fmt.Printf("Indexed %d entities for %s\n", count, globalStory)
				return nil
			})
		},
	}
}
