package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// MemoryRecordRepo is a concurrency-safe in-memory RecordRepo.
// Records are lost on restart; use it for local development and tests.
type MemoryRecordRepo struct {
	mu      sync.RWMutex
	records []domain.TravelRecord // insertion order
}

// NewMemoryRecordRepo returns an empty in-memory store.
func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{}
}

// Create appends rec.
func (r *MemoryRecordRepo) Create(_ context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	return rec, nil
}

// List returns a copy of all records, newest first. Among equal StoredAt
// values the later insert comes first.
func (r *MemoryRecordRepo) List(_ context.Context) ([]domain.TravelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TravelRecord, len(r.records))
	for i, rec := range r.records {
		out[len(r.records)-1-i] = rec
	}
	// Stable so ties keep the reversed insertion order.
	slices.SortStableFunc(out, func(a, b domain.TravelRecord) int {
		return b.StoredAt.Compare(a.StoredAt)
	})
	return out, nil
}
