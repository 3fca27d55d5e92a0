package repository

import (
	"context"
	"sync"
	"time"

	"fixly/internal/models"
)

// MemoryViewRepository is the in-process fallback when Redis is absent or
// down. Entries expire lazily on read.
type MemoryViewRepository struct {
	states sync.Map
	ttl    time.Duration
}

type memoryEntry struct {
	state     *models.ViewState
	expiresAt time.Time
}

func NewMemoryViewRepository(ttl time.Duration) *MemoryViewRepository {
	return &MemoryViewRepository{ttl: ttl}
}

func (r *MemoryViewRepository) GetView(ctx context.Context, key string) (*models.ViewState, error) {
	val, ok := r.states.Load(key)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.states.Delete(key)
		return nil, nil
	}
	// Copy on read so callers cannot mutate the stored entry, matching
	// the serialize/deserialize boundary of the Redis store.
	state := *entry.state
	return &state, nil
}

func (r *MemoryViewRepository) SetView(ctx context.Context, state *models.ViewState) error {
	stored := *state
	r.states.Store(state.SessionKey, &memoryEntry{
		state:     &stored,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryViewRepository) ClearView(ctx context.Context, key string) error {
	r.states.Delete(key)
	return nil
}
