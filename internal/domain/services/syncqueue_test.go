package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/mocks"
)

func TestSyncQueue_PushesEnqueuedBlobs(t *testing.T) {
	remote := mocks.NewBlobStore()
	queue := NewSyncQueue(remote, quietLogger())

	assert.True(t, queue.Enqueue("k1", []byte("one")))
	assert.True(t, queue.Enqueue("k2", []byte("two")))
	queue.Close()

	assert.Equal(t, []byte("one"), remote.Blobs["k1"])
	assert.Equal(t, []byte("two"), remote.Blobs["k2"])
}

func TestSyncQueue_EnqueueCopiesBlob(t *testing.T) {
	remote := mocks.NewBlobStore()
	queue := NewSyncQueue(remote, quietLogger())

	blob := []byte("original")
	require.True(t, queue.Enqueue("k", blob))
	blob[0] = 'X'
	queue.Close()

	assert.Equal(t, []byte("original"), remote.Blobs["k"])
}

// flakyBlobStore fails the first N puts, then succeeds.
type flakyBlobStore struct {
	mu       sync.Mutex
	failures int
	attempts int
	stored   map[string][]byte
}

func (f *flakyBlobStore) Get(_ context.Context, _ string) ([]byte, error) { return nil, nil }
func (f *flakyBlobStore) Delete(_ context.Context, _ string) error        { return nil }
func (f *flakyBlobStore) List(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (f *flakyBlobStore) Put(_ context.Context, key string, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("transient")
	}
	if f.stored == nil {
		f.stored = make(map[string][]byte)
	}
	f.stored[key] = blob
	return nil
}

func TestSyncQueue_RetriesWithBackoff(t *testing.T) {
	remote := &flakyBlobStore{failures: 2}
	queue := NewSyncQueue(remote, quietLogger())
	queue.backoff = time.Millisecond

	require.True(t, queue.Enqueue("k", []byte("v")))

	// Wait for the push to land before shutting down; Close during a
	// backoff sleep would drop the task.
	require.Eventually(t, func() bool {
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return remote.stored["k"] != nil
	}, 2*time.Second, 5*time.Millisecond)
	queue.Close()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, 3, remote.attempts)
	assert.Equal(t, []byte("v"), remote.stored["k"])
}

func TestSyncQueue_EnqueueAfterCloseIsRejected(t *testing.T) {
	queue := NewSyncQueue(mocks.NewBlobStore(), quietLogger())
	queue.Close()
	assert.False(t, queue.Enqueue("k", []byte("v")))
}
