package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ersonp/novelstate/internal/application/handlers"
	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/services"
)

func newOpenCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "open <chapter>",
		Short: "Open a chapter and update the story state",
		Long: "Resolves chapter content from the local cache, the remote sync store or the " +
			"origin site, analyzes it against the previous chapter's state and prints the result.",
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

				outcome, err := d.OpenHandler.Handle(cmd.Context(), ref)
				if errors.Is(err, services.ErrStaleNavigation) {
					return nil
				}
				if err != nil {
					return err
				}

				printOutcome(outcome, full)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the full chapter text instead of a preview")

	return cmd
}

func printOutcome(outcome *handlers.OpenOutcome, full bool) {
	if outcome.Notice != nil {
		fmt.Printf("! %s\n", outcome.Notice.Message)
		if outcome.Notice.OfferManualEntry {
			fmt.Println("  (use 'novelstate import' to paste the chapter text manually)")
		}
	}

	if outcome.Content != "" {
		fmt.Printf("--- chapter %d (%s) ---\n", outcome.Ref.Index, outcome.Source)
		fmt.Println(preview(outcome.Content, full))
		fmt.Println()
	}

	if outcome.Snapshot != nil {
		printSnapshot(outcome.Snapshot)
	}
}

func preview(content string, full bool) string {
	if full {
		return content
	}
	runes := []rune(content)
	if len(runes) <= ContentPreviewRunes {
		return content
	}
	return string(runes[:ContentPreviewRunes]) + "…"
}

func printSnapshot(s *entities.Snapshot) {
	if s.Status != nil && s.Status.Name != "" {
		fmt.Printf("Protagonist: %s\n", s.Status.Name)
		for _, trait := range s.Status.Traits {
			fmt.Printf("  - %s: %s\n", trait.Name, trait.Description)
		}
	}
	if s.RealmTier != "" {
		fmt.Printf("Realm: %s\n", s.RealmTier)
	}
	if s.CurrentLocationName != "" {
		fmt.Printf("Location: %s\n", s.CurrentLocationName)
	}

	printEntityList("Inventory", s.Inventory)
	printEntityList("Skills", s.Skills)
	printEntityList("Equipment", s.Equipment)
	printEntityList("NPCs", s.NPCs)
	printEntityList("Factions", s.Factions)

	if len(s.Relationships) > 0 {
		fmt.Println("Relationships:")
		for _, rel := range s.Relationships {
			fmt.Printf("  - %s & %s: %s\n", rel.SubjectA, rel.SubjectB, rel.Description)
		}
	}
}

func printEntityList(label string, ents []entities.NamedEntity) {
	if len(ents) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, e := range ents {
		line := "  - " + e.Name
		if e.Status != "" && e.Status != entities.StatusActive {
			line += fmt.Sprintf(" [%s]", e.Status)
		}
		if e.Description != "" {
			line += ": " + e.Description
		}
		fmt.Println(line)
	}
}
