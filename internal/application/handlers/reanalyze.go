package handlers

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/services"
)

// ReanalyzeHandler handles explicit re-analysis requests, the one path
// allowed to overwrite a frozen chapter snapshot.
type ReanalyzeHandler struct {
	resolver *services.ResolverService
}

// NewReanalyzeHandler creates a new reanalyze handler.
func NewReanalyzeHandler(resolver *services.ResolverService) *ReanalyzeHandler {
	return &ReanalyzeHandler{resolver: resolver}
}

// Handle recomputes the chapter's snapshot from its cached content.
func (h *ReanalyzeHandler) Handle(ctx context.Context, ref entities.ChapterRef) (*OpenOutcome, error) {
	result, err := h.resolver.Reanalyze(ctx, ref)
	return outcomeFrom(ref, result, err)
}
