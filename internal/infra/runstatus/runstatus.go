// Package runstatus keeps the outcome of the last reconciliation run.
package runstatus

import (
	"context"
	"sync"
	"time"
)

// Run is one execution of the reconciliation job.
type Run struct {
	Trigger      string    `json:"trigger"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	UpdatedCount int64     `json:"updatedCount"`
	Error        string    `json:"error,omitempty"`
}

func (r Run) OK() bool { return r.Error == "" }

type Store interface {
	Save(ctx context.Context, run Run) error
	// Last returns nil when no run has been recorded yet.
	Last(ctx context.Context) (*Run, error)
}

// ======================================================
// Memory
// ======================================================

type MemoryStore struct {
	mu   sync.RWMutex
	last *Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, run Run) error {
	s.mu.Lock()
	s.last = &run
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Last(_ context.Context) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, nil
	}
	run := *s.last
	return &run, nil
}
