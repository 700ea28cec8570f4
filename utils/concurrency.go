package utils

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// WorkerPool runs jobs on a bounded number of goroutines, spacing job
// starts by at least the configured interval.
type WorkerPool struct {
	semaphore chan struct{}
	limiter   *rate.Limiter
	wg        sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with the given concurrency and minimum
// gap between job starts. rateLimitMs <= 0 disables spacing.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	limit := rate.Inf
	if rateLimitMs > 0 {
		limit = rate.Every(time.Duration(rateLimitMs) * time.Millisecond)
	}
	return &WorkerPool{
		semaphore: make(chan struct{}, maxWorkers),
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Submit enqueues a job. It blocks while all workers are busy.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context)) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		// On cancellation the job still runs so it can report ctx.Err().
		_ = wp.limiter.Wait(ctx)
		job(ctx)
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// URLSet is a thread-safe set for tracking requested URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been added.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
