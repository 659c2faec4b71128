// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// ContentFetcher is a mock implementation of ports.ContentFetcher.
type ContentFetcher struct {
	// Content maps chapter index to the text returned for it. Falls back
	// to Text when the index is absent.
	Content map[int]string
	Text    string
	Err     error

	// Calls counts Fetch invocations.
	Calls int
}

// Fetch returns the configured content or error.
func (m *ContentFetcher) Fetch(_ context.Context, ref entities.ChapterRef) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if text, ok := m.Content[ref.Index]; ok {
		return text, nil
	}
	return m.Text, nil
}
