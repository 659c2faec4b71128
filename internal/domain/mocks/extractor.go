package mocks

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// StatsExtractor is a mock implementation of ports.StatsExtractor.
type StatsExtractor struct {
	// Deltas maps chapter text to the delta returned for it. Falls back
	// to Delta when the text is absent.
	Deltas map[string]*entities.Snapshot
	Delta  *entities.Snapshot
	Err    error

	// Calls counts Extract invocations; Priors records the prior
	// snapshot passed on each call.
	Calls  int
	Priors []*entities.Snapshot
}

// Extract returns the configured delta or error.
func (m *StatsExtractor) Extract(_ context.Context, chapterText string, prior *entities.Snapshot) (*entities.Snapshot, error) {
	m.Calls++
	m.Priors = append(m.Priors, prior)
	if m.Err != nil {
		return nil, m.Err
	}
	if delta, ok := m.Deltas[chapterText]; ok {
		return delta, nil
	}
	return m.Delta, nil
}
