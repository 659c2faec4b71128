// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// FetchReason classifies why fetching chapter content failed.
type FetchReason string

const (
	FetchReasonNetwork  FetchReason = "network"
	FetchReasonBlocked  FetchReason = "blocked"
	FetchReasonNotFound FetchReason = "not_found"
)

// FetchError reports a failed content fetch. All fetch failures are
// recoverable: the caller offers a manual content-entry fallback.
type FetchError struct {
	Reason FetchReason
	Ref    entities.ChapterRef
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching chapter %d of story %s: %s: %v", e.Ref.Index, e.Ref.StoryID, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ContentFetcher obtains raw chapter text from its origin (web scrape,
// EPUB archive). Implementations return *FetchError on failure.
type ContentFetcher interface {
	// Fetch returns the raw text of the referenced chapter.
	Fetch(ctx context.Context, ref entities.ChapterRef) (string, error)
}
