package memory

import (
	"context"
	"sync"

	"github.com/razorbill/livematch/internal/domain/notification"
)

// NotificationRepository keeps the reminder dedup set in memory.
type NotificationRepository struct {
	mu  sync.Mutex
	ids map[string]struct{}
	ord []string
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{ids: make(map[string]struct{})}
}

func (r *NotificationRepository) Add(_ context.Context, matchID string) (bool, error) {
	if matchID == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[matchID]; ok {
		return false, nil
	}
	r.ids[matchID] = struct{}{}
	r.ord = append(r.ord, matchID)
	return true, nil
}

func (r *NotificationRepository) Has(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[matchID]
	return ok, nil
}

func (r *NotificationRepository) List(_ context.Context) ([]notification.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]notification.Record, 0, len(r.ord))
	for _, id := range r.ord {
		records = append(records, notification.Record{MatchID: id})
	}
	return records, nil
}
