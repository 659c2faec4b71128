package ports

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// ExtractReason classifies why a stats extraction failed.
type ExtractReason string

const (
	ExtractReasonInvalidCredentials ExtractReason = "invalid_credentials"
	ExtractReasonRateLimited        ExtractReason = "rate_limited"
	ExtractReasonMalformedResponse  ExtractReason = "malformed_response"
)

// ExtractorError reports a failed extraction. invalid_credentials must
// surface a credential re-entry prompt upstream; all reasons leave the
// chapter unanalyzed but readable.
type ExtractorError struct {
	Reason ExtractReason
	Err    error
}

func (e *ExtractorError) Error() string {
	return fmt.Sprintf("extracting stats: %s: %v", e.Reason, e.Err)
}

func (e *ExtractorError) Unwrap() error {
	return e.Err
}

// StatsExtractor derives the per-chapter delta of newly observed facts
// from raw chapter text. The prior snapshot is passed as context so the
// model reports only what changed. A nil delta with nil error means the
// chapter contained nothing worth recording and is equivalent to an
// all-absent-fields delta.
type StatsExtractor interface {
	Extract(ctx context.Context, chapterText string, prior *entities.Snapshot) (*entities.Snapshot, error)
}
