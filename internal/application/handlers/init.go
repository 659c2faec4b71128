package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// InitHandler handles workspace initialization.
type InitHandler struct {
	store    ports.ChapterStore
	vectorDB ports.VectorDB
}

// NewInitHandler creates a new init handler. vectorDB may be nil when
// search is not configured.
func NewInitHandler(store ports.ChapterStore, vectorDB ports.VectorDB) *InitHandler {
	return &InitHandler{
		store:    store,
		vectorDB: vectorDB,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
}

// Handle writes the default config and prepares the local database.
func (h *InitHandler) Handle(ctx context.Context, basePath string, vectorSize uint64) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("novelstate already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := h.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("preparing chapter database: %w", err)
	}

	if h.vectorDB != nil {
		if err := h.vectorDB.EnsureCollection(ctx, vectorSize); err != nil {
			return nil, fmt.Errorf("creating search collection: %w", err)
		}
	}

	return &InitResult{
		ConfigPath:   filepath.Join(config.ConfigDir(basePath), config.DefaultConfigFile),
		DatabasePath: cfg.SQLitePath(basePath),
	}, nil
}
