// Package queue durably holds write operations that could not be delivered
// immediately and replays them in order once connectivity returns.
//
// The queue snapshot is persisted to the local cache after every mutation so
// pending writes survive process restarts. Requests are never dropped by age
// or attempt count; a request that fails replay moves to the tail.
package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/timfmjones/dreamjournal/internal/client/cache"
	"github.com/timfmjones/dreamjournal/internal/client/models"
	"github.com/timfmjones/dreamjournal/internal/common"
	"github.com/timfmjones/dreamjournal/internal/logging"
)

// Transport replays one queued request. The API gateway's raw sender
// implements it, bypassing offline gating so a drain cannot re-queue through
// the front door.
type Transport interface {
	Do(ctx context.Context, method, endpoint string, payload json.RawMessage) error
}

// Queue is a durable FIFO of pending writes.
type Queue struct {
	cache cache.Cache
	log   logging.Logger

	mu       sync.Mutex
	items    []models.QueuedRequest
	draining bool
}

func New(c cache.Cache, log logging.Logger) *Queue {
	return &Queue{cache: c, log: log.With("component", "queue")}
}

// Restore loads the persisted snapshot, typically once at startup. A missing
// or unreadable snapshot leaves the queue empty.
func (q *Queue) Restore(ctx context.Context) {
	data, err := q.cache.Get(ctx, common.CacheKeyQueue)
	if err != nil {
		q.log.Warn(ctx, "failed to read queue snapshot", "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var items []models.QueuedRequest
	if err := json.Unmarshal(data, &items); err != nil {
		q.log.Warn(ctx, "corrupt queue snapshot ignored", "error", err)
		return
	}

	q.mu.Lock()
	q.items = items
	q.mu.Unlock()
}

// Enqueue appends a request and persists the queue. It never fails: if
// persistence fails the in-memory entry still stands for this process
// lifetime, logged as a warning.
func (q *Queue) Enqueue(ctx context.Context, method, endpoint string, payload json.RawMessage) {
	req := models.QueuedRequest{
		Method:     method,
		Endpoint:   endpoint,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()

	q.persist(ctx)
	q.log.Info(ctx, "request queued", "method", method, "endpoint", endpoint)
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns a copy of the queued requests, oldest first.
func (q *Queue) Pending() []models.QueuedRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.QueuedRequest, len(q.items))
	copy(out, q.items)
	return out
}

// Drain replays every currently queued request in enqueue order via t.
//
// The live queue is cleared and persisted empty before the first replay, so
// an interrupted drain cannot double-replay. A request whose replay fails is
// re-appended to the tail rather than retried in place, so one bad request
// never blocks later ones from being attempted once per pass. A drain that
// overlaps an in-flight drain is ignored.
func (q *Queue) Drain(ctx context.Context, t Transport) (replayed, requeued int) {
	q.mu.Lock()
	if q.draining || len(q.items) == 0 {
		q.mu.Unlock()
		return 0, 0
	}
	q.draining = true
	snapshot := q.items
	q.items = nil
	q.mu.Unlock()

	q.persist(ctx)

	for _, req := range snapshot {
		if err := t.Do(ctx, req.Method, req.Endpoint, req.Payload); err != nil {
			req.Attempts++
			q.mu.Lock()
			q.items = append(q.items, req)
			q.mu.Unlock()
			requeued++
			q.log.Warn(ctx, "replay failed, re-queued",
				"method", req.Method, "endpoint", req.Endpoint, "attempts", req.Attempts, "error", err)
			continue
		}
		replayed++
	}

	q.mu.Lock()
	q.draining = false
	remaining := len(q.items)
	q.mu.Unlock()

	if remaining > 0 {
		q.persist(ctx)
	}
	q.log.Info(ctx, "queue drained", "replayed", replayed, "requeued", requeued)
	return replayed, requeued
}

func (q *Queue) persist(ctx context.Context) {
	q.mu.Lock()
	items := q.items
	if items == nil {
		items = []models.QueuedRequest{}
	}
	data, err := json.Marshal(items)
	q.mu.Unlock()
	if err != nil {
		q.log.Warn(ctx, "failed to marshal queue", "error", err)
		return
	}
	if err := q.cache.Set(ctx, common.CacheKeyQueue, data); err != nil {
		q.log.Warn(ctx, "failed to persist queue", "error", err)
	}
}
