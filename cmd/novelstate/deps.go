package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ersonp/novelstate/internal/application/handlers"
	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/domain/services"
	"github.com/ersonp/novelstate/internal/infrastructure/blobstore/drive"
	"github.com/ersonp/novelstate/internal/infrastructure/chapterdb/sqlite"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
	embedder "github.com/ersonp/novelstate/internal/infrastructure/embedder/openai"
	"github.com/ersonp/novelstate/internal/infrastructure/fetcher/web"
	"github.com/ersonp/novelstate/internal/infrastructure/llm/gemini"
	llm "github.com/ersonp/novelstate/internal/infrastructure/llm/openai"
	"github.com/ersonp/novelstate/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config           *config.Config
	Stories          *config.StoriesConfig
	OpenHandler      *handlers.OpenHandler
	ReanalyzeHandler *handlers.ReanalyzeHandler
	ShowHandler      *handlers.ShowHandler
	ExportHandler    *handlers.ExportHandler
	StoryHandler     *handlers.StoryHandler

	// SyncHandler is nil when Drive sync is not configured.
	SyncHandler *handlers.SyncHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	store  *sqlite.Repository
	cache  *services.ChapterCacheService
	remote ports.BlobStore
	logger *slog.Logger
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level
// components.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	stories, err := config.LoadStories(cwd)
	if err != nil {
		return fmt.Errorf("loading stories: %w", err)
	}

	logger := newLogger()

	store, err := sqlite.NewRepository(cfg.SQLitePath(cwd))
	if err != nil {
		return fmt.Errorf("opening chapter database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}

	cache := services.NewChapterCacheService(store)

	extractor, closeExtractor, err := newExtractor(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}
	defer closeExtractor()

	fetcher := web.NewFetcher(cfg.Fetcher)

	// Cloud sync is optional; everything works offline without it.
	var remote ports.BlobStore
	var syncQueue *services.SyncQueue
	if cfg.Drive.CredentialsFile != "" {
		driveStore, err := drive.NewStore(ctx, cfg.Drive)
		if err != nil {
			return fmt.Errorf("connecting to drive: %w", err)
		}
		remote = driveStore
		syncQueue = services.NewSyncQueue(remote, logger)
		defer syncQueue.Close()
	}

	resolver := services.NewResolverService(cache, remote, fetcher, extractor, syncQueue, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config:           cfg,
			Stories:          stories,
			OpenHandler:      handlers.NewOpenHandler(resolver),
			ReanalyzeHandler: handlers.NewReanalyzeHandler(resolver),
			ShowHandler:      handlers.NewShowHandler(cache),
			ExportHandler:    handlers.NewExportHandler(cache),
			StoryHandler:     handlers.NewStoryHandler(store, nil, cwd, logger),
		},
		store:  store,
		cache:  cache,
		remote: remote,
		logger: logger,
	}

	if remote != nil {
		deps.SyncHandler = handlers.NewSyncHandler(services.NewBulkSyncService(cache, remote, logger))
	}

	return fn(deps)
}

// withSearchHandler builds the search stack (Qdrant plus embedder) on top
// of the common dependencies. Kept separate because most commands never
// touch the vector database.
func withSearchHandler(ctx context.Context, fn func(*handlers.SearchHandler) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		repo, err := qdrant.NewRepository(d.Config.Qdrant)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer repo.Close()

		emb, err := embedder.NewEmbedder(d.Config.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		handler := handlers.NewSearchHandler(services.NewSearchService(repo, emb), d.cache)
		return fn(handler)
	})
}

// newExtractor builds the configured stats extraction client. The returned
// closer releases provider connections and is safe to call always.
func newExtractor(ctx context.Context, cfg config.LLMConfig) (ports.StatsExtractor, func(), error) {
	switch cfg.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, func() {}, err
		}
		return client, func() { client.Close() }, nil
	case "openai":
		client, err := llm.NewClient(cfg)
		if err != nil {
			return nil, func() {}, err
		}
		return client, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown llm provider %q (want gemini or openai)", cfg.Provider)
	}
}

// storyRef resolves the --story flag plus a chapter argument against the
// registry, deriving the chapter URL from the story's source when set.
func storyRef(stories *config.StoriesConfig, chapter int) (entities.ChapterRef, error) {
	if globalStory == "" {
		return entities.ChapterRef{}, errors.New("story is required (use --story flag)")
	}
	entry, err := stories.Get(globalStory)
	if err != nil {
		return entities.ChapterRef{}, err
	}

	ref := entities.ChapterRef{StoryID: globalStory, Index: chapter}
	if entry.SourceURL != "" {
		ref.URL = fmt.Sprintf("%s/chapter-%d", strings.TrimRight(entry.SourceURL, "/"), chapter)
	}
	return ref, nil
}

// requireStory resolves the --story flag for commands that operate on a
// whole story rather than one chapter.
func requireStory(stories *config.StoriesConfig) (string, error) {
	if globalStory == "" {
		return "", errors.New("story is required (use --story flag)")
	}
	if _, err := stories.Get(globalStory); err != nil {
		return "", err
	}
	return globalStory, nil
}
