package store

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Locks hands out one exclusive lock per artifact.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

// NewLocks creates an empty lock table.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*semaphore.Weighted)}
}

// Acquire blocks until the lock of ref is held or ctx is done. The returned
// function releases the lock.
func (l *Locks) Acquire(ctx context.Context, ref ArtifactRef) (func(), error) {
	l.mu.Lock()
	sem, ok := l.locks[ref.String()]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[ref.String()] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	return func() { sem.Release(1) }, nil
}
