// Package handlers contains application-level request handlers.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/domain/services"
)

// NoticeKind classifies a non-fatal problem surfaced to the reader.
type NoticeKind string

const (
	// NoticeFetchFailed means chapter content could not be obtained from
	// any source. The reader should be offered manual content entry.
	NoticeFetchFailed NoticeKind = "fetch_failed"

	// NoticeCredentials means the extraction provider rejected the stored
	// API key. The reader should be prompted to re-enter it.
	NoticeCredentials NoticeKind = "credentials"

	// NoticeRateLimited means the extraction provider throttled the call.
	NoticeRateLimited NoticeKind = "rate_limited"

	// NoticeAnalysisFailed covers any other analysis failure. The chapter
	// stays readable, just without an updated state snapshot.
	NoticeAnalysisFailed NoticeKind = "analysis_failed"
)

// Notice is a dismissible problem report. Every notice leaves the session
// usable: no failure here is fatal to reading.
type Notice struct {
	Kind    NoticeKind
	Message string

	// OfferManualEntry is set when the sensible recovery is pasting the
	// chapter text by hand.
	OfferManualEntry bool
}

// OpenOutcome is what the presentation layer renders after opening a
// chapter: content plus snapshot when everything worked, content plus a
// notice when analysis failed, or just a notice when no content exists.
type OpenOutcome struct {
	Ref      entities.ChapterRef
	Content  string
	Snapshot *entities.Snapshot
	Source   services.OpenSource
	Analyzed bool
	Notice   *Notice
}

// OpenHandler handles chapter-open requests.
type OpenHandler struct {
	resolver *services.ResolverService
}

// NewOpenHandler creates a new open handler.
func NewOpenHandler(resolver *services.ResolverService) *OpenHandler {
	return &OpenHandler{resolver: resolver}
}

// Handle opens a chapter and converts resolution failures into notices.
// Only a superseded navigation propagates as an error; the caller drops
// that result silently.
func (h *OpenHandler) Handle(ctx context.Context, ref entities.ChapterRef) (*OpenOutcome, error) {
	result, err := h.resolver.Open(ctx, ref)
	return outcomeFrom(ref, result, err)
}

// HandleImport stores manually entered chapter text and analyzes it.
func (h *OpenHandler) HandleImport(ctx context.Context, ref entities.ChapterRef, content string) (*OpenOutcome, error) {
	result, err := h.resolver.ImportContent(ctx, ref, content)
	return outcomeFrom(ref, result, err)
}

// outcomeFrom folds a resolver result and error into one render model.
func outcomeFrom(ref entities.ChapterRef, result *services.OpenResult, err error) (*OpenOutcome, error) {
	if errors.Is(err, services.ErrStaleNavigation) {
		return nil, err
	}

	outcome := &OpenOutcome{Ref: ref}
	if result != nil {
		outcome.Ref = result.Ref
		outcome.Content = result.Content
		outcome.Snapshot = result.Snapshot
		outcome.Source = result.Source
		outcome.Analyzed = result.Analyzed
	}

	if err != nil {
		outcome.Notice = noticeFrom(err)
	}
	return outcome, nil
}

// noticeFrom maps a resolution error onto the notice shown to the reader.
func noticeFrom(err error) *Notice {
	var fetchErr *ports.FetchError
	if errors.As(err, &fetchErr) {
		return &Notice{
			Kind:             NoticeFetchFailed,
			Message:          fmt.Sprintf("could not load chapter %d: %s", fetchErr.Ref.Index, fetchErr.Reason),
			OfferManualEntry: true,
		}
	}

	var extractErr *ports.ExtractorError
	if errors.As(err, &extractErr) {
		switch extractErr.Reason {
		case ports.ExtractReasonInvalidCredentials:
			return &Notice{
				Kind:    NoticeCredentials,
				Message: "the analysis provider rejected your API key; update it and re-analyze",
			}
		case ports.ExtractReasonRateLimited:
			return &Notice{
				Kind:    NoticeRateLimited,
				Message: "the analysis provider is rate limiting; try re-analyzing later",
			}
		}
	}

	return &Notice{
		Kind:    NoticeAnalysisFailed,
		Message: fmt.Sprintf("analysis failed: %v", err),
	}
}
