package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ersonp/novelstate/internal/application/handlers"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/infrastructure/chapterdb/sqlite"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
	embedder "github.com/ersonp/novelstate/internal/infrastructure/embedder/openai"
	"github.com/ersonp/novelstate/internal/infrastructure/vectordb/qdrant"
)

func newInitCmd() *cobra.Command {
	var withSearch bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize novelstate in the current directory",
		Long:  "Creates a .novelstate directory with default configuration and prepares the local chapter database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, withSearch)
		},
	}

	cmd.Flags().BoolVar(&withSearch, "search", false, "Also create the Qdrant search collection")

	return cmd
}

func runInit(cmd *cobra.Command, withSearch bool) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("novelstate already initialized in %s", cwd)
	}

	// The store path comes from the default config; write it first so the
	// handler can load it.
	cfg := config.Default()
	store, err := sqlite.NewRepository(ensureParent(cfg.SQLitePath(cwd)))
	if err != nil {
		return fmt.Errorf("opening chapter database: %w", err)
	}
	defer store.Close()

	var vectorDB ports.VectorDB
	if withSearch {
		repo, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer repo.Close()
		vectorDB = repo
	}

	handler := handlers.NewInitHandler(store, vectorDB)
	result, err := handler.Handle(ctx, cwd, embedder.VectorSize)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created %s\n", result.DatabasePath)
	fmt.Println("Novelstate initialized successfully!")

	return nil
}

// ensureParent creates the directory holding the database file. SQLite
// won't create missing parent directories on its own.
func ensureParent(path string) string {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return path
}
