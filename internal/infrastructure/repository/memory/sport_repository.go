package memory

import (
	"context"
	"sync"

	"github.com/razorbill/livematch/internal/domain/sport"
)

// SportRepository is the in-memory directory store used by tests and
// cache-less runs.
type SportRepository struct {
	mu     sync.RWMutex
	sports []sport.Sport
}

func NewSportRepository(sports []sport.Sport) *SportRepository {
	return &SportRepository{sports: append([]sport.Sport(nil), sports...)}
}

func (r *SportRepository) Load(_ context.Context) ([]sport.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]sport.Sport(nil), r.sports...), nil
}

func (r *SportRepository) Save(_ context.Context, sports []sport.Sport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sports = append([]sport.Sport(nil), sports...)
	return nil
}

func (r *SportRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sports = nil
	return nil
}
