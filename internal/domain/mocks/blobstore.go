package mocks

import (
	"context"
	"sort"
	"strings"
)

// BlobStore is an in-memory mock implementation of ports.BlobStore.
type BlobStore struct {
	Blobs map[string][]byte

	GetErr    error
	PutErr    error
	DeleteErr error
	ListErr   error

	GetCalls int
	PutCalls int
}

// NewBlobStore creates a new mock BlobStore.
func NewBlobStore() *BlobStore {
	return &BlobStore{Blobs: make(map[string][]byte)}
}

// Get returns the stored blob or nil when absent.
func (m *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	blob, ok := m.Blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// Put stores the blob.
func (m *BlobStore) Put(_ context.Context, key string, blob []byte) error {
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.Blobs[key] = stored
	return nil
}

// Delete removes the blob.
func (m *BlobStore) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Blobs, key)
	return nil
}

// List returns stored keys with the prefix, sorted for determinism.
func (m *BlobStore) List(_ context.Context, prefix string) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var keys []string
	for k := range m.Blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
