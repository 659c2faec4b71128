package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ersonp/novelstate/internal/domain/ports"
)

const (
	defaultQueueDepth  = 64
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
)

type syncTask struct {
	key  string
	blob []byte
}

// SyncQueue pushes blobs to the remote store in the background. Pushes
// are best-effort: failures are retried with backoff, then logged and
// dropped. Enqueue never blocks the caller, so local-cache correctness
// is independent of remote availability.
type SyncQueue struct {
	store       ports.BlobStore
	logger      *slog.Logger
	tasks       chan syncTask
	maxAttempts int
	backoff     time.Duration

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	stop   chan struct{}
}

// NewSyncQueue creates a queue and starts its worker. Callers must Close
// it to flush in-flight pushes.
func NewSyncQueue(store ports.BlobStore, logger *slog.Logger) *SyncQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &SyncQueue{
		store:       store,
		logger:      logger,
		tasks:       make(chan syncTask, defaultQueueDepth),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		stop:        make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Enqueue schedules a remote push. Returns false when the queue is full
// or closed; the push is dropped and the caller proceeds regardless.
func (q *SyncQueue) Enqueue(key string, blob []byte) bool {
	owned := make([]byte, len(blob))
	copy(owned, blob)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}

	select {
	case q.tasks <- syncTask{key: key, blob: owned}:
		return true
	default:
		q.logger.Warn("sync queue full, dropping push", "key", key)
		return false
	}
}

// Close stops accepting new tasks and waits for queued pushes to finish.
func (q *SyncQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.stop)
		close(q.tasks)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *SyncQueue) run() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.push(task)
	}
}

func (q *SyncQueue) push(task syncTask) {
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err := q.store.Put(context.Background(), task.key, task.blob)
		if err == nil {
			q.logger.Debug("pushed blob", "key", task.key, "attempt", attempt)
			return
		}
		q.logger.Warn("remote push failed", "key", task.key, "attempt", attempt, "error", err)
		if attempt == q.maxAttempts {
			return
		}
		delay := q.backoff * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-q.stop:
			q.logger.Warn("dropping push on shutdown", "key", task.key)
			return
		}
	}
}
