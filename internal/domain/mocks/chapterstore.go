package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// ChapterStore is an in-memory mock implementation of ports.ChapterStore.
type ChapterStore struct {
	Chapters map[string]*entities.ChapterEntry
	States   map[string]*entities.Snapshot

	GetErr error
	PutErr error

	PutCalls int
}

// NewChapterStore creates a new mock ChapterStore.
func NewChapterStore() *ChapterStore {
	return &ChapterStore{
		Chapters: make(map[string]*entities.ChapterEntry),
		States:   make(map[string]*entities.Snapshot),
	}
}

func chapterKey(storyID string, chapterIndex int) string {
	return fmt.Sprintf("%s/%d", storyID, chapterIndex)
}

// EnsureSchema is a no-op.
func (m *ChapterStore) EnsureSchema(_ context.Context) error { return nil }

// Close is a no-op.
func (m *ChapterStore) Close() error { return nil }

// GetChapter returns a deep copy of the stored entry, or nil when absent.
func (m *ChapterStore) GetChapter(_ context.Context, storyID string, chapterIndex int) (*entities.ChapterEntry, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	entry, ok := m.Chapters[chapterKey(storyID, chapterIndex)]
	if !ok {
		return nil, nil
	}
	return &entities.ChapterEntry{Content: entry.Content, Snapshot: entry.Snapshot.Clone()}, nil
}

// PutChapter stores a deep copy of the entry.
func (m *ChapterStore) PutChapter(_ context.Context, storyID string, chapterIndex int, entry *entities.ChapterEntry) error {
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Chapters[chapterKey(storyID, chapterIndex)] = &entities.ChapterEntry{
		Content:  entry.Content,
		Snapshot: entry.Snapshot.Clone(),
	}
	return nil
}

// DeleteChapter removes a cached chapter entry.
func (m *ChapterStore) DeleteChapter(_ context.Context, storyID string, chapterIndex int) error {
	delete(m.Chapters, chapterKey(storyID, chapterIndex))
	return nil
}

// ListChapters returns cached chapter indexes in ascending order.
func (m *ChapterStore) ListChapters(_ context.Context, storyID string) ([]int, error) {
	prefix := storyID + "/"
	var indexes []int
	for key := range m.Chapters {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes, nil
}

// GetStoryState returns a deep copy of the cumulative snapshot, or nil.
func (m *ChapterStore) GetStoryState(_ context.Context, storyID string) (*entities.Snapshot, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.States[storyID].Clone(), nil
}

// PutStoryState stores a deep copy of the cumulative snapshot.
func (m *ChapterStore) PutStoryState(_ context.Context, storyID string, snapshot *entities.Snapshot) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.States[storyID] = snapshot.Clone()
	return nil
}

// DeleteStory removes all cached state for a story.
func (m *ChapterStore) DeleteStory(_ context.Context, storyID string) error {
	prefix := storyID + "/"
	for key := range m.Chapters {
		if strings.HasPrefix(key, prefix) {
			delete(m.Chapters, key)
		}
	}
	delete(m.States, storyID)
	return nil
}
