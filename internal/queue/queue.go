// Package queue decouples the dispatch scheduler from delivery workers
// through a typed in-process job queue with a fixed worker pool.
package queue

import (
	"context"
	"log/slog"
	"sync"
)

// Job identifies one pending delivery. The worker re-resolves all content
// from storage, so the payload stays minimal.
type Job struct {
	UserID        int64
	InspirationID int64
	Language      string
}

// Handler executes a single delivery job.
type Handler interface {
	Deliver(ctx context.Context, job Job)
}

// Queue is a buffered job queue consumed by a pool of workers.
type Queue struct {
	jobs chan Job
	log  *slog.Logger
}

// New creates a Queue with the given buffer size.
func New(size int, log *slog.Logger) *Queue {
	return &Queue{
		jobs: make(chan Job, size),
		log:  log,
	}
}

// Enqueue adds a job without blocking. When the buffer is saturated the job
// is dropped and logged; the user is picked up again on a later cycle
// because no sent record exists yet.
func (q *Queue) Enqueue(job Job) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		q.log.Warn("queue full, dropping job",
			"user_id", job.UserID,
			"inspiration_id", job.InspirationID,
			"language", job.Language,
		)
		return false
	}
}

// Run starts n workers consuming jobs and blocks until ctx is cancelled and
// all workers have drained.
func (q *Queue) Run(ctx context.Context, n int, h Handler) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.worker(ctx, h)
		}()
	}
	wg.Wait()
}

func (q *Queue) worker(ctx context.Context, h Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.deliver(ctx, h, job)
		}
	}
}

// deliver runs one job, recovering panics so a broken job cannot take down
// the pool.
func (q *Queue) deliver(ctx context.Context, h Handler, job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("delivery panic",
				"user_id", job.UserID,
				"inspiration_id", job.InspirationID,
				"panic", r,
			)
		}
	}()
	h.Deliver(ctx, job)
}
