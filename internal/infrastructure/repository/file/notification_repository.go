package file

import (
	"context"
	"fmt"
	"sync"

	"github.com/razorbill/livematch/internal/domain/notification"
	"github.com/razorbill/livematch/internal/platform/storage"
)

// notifiedKey holds a JSON array of match ids, the format the original front
// end persisted.
const notifiedKey = "notifiedMatches"

// NotificationRepository persists the reminder dedup set.
type NotificationRepository struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewNotificationRepository(store *storage.Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Add(_ context.Context, matchID string) (bool, error) {
	if matchID == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.loadLocked()
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == matchID {
			return false, nil
		}
	}

	ids = append(ids, matchID)
	if err := r.store.Set(notifiedKey, ids); err != nil {
		return false, fmt.Errorf("save notified matches: %w", err)
	}
	return true, nil
}

func (r *NotificationRepository) Has(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.loadLocked()
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepository) List(_ context.Context) ([]notification.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.loadLocked()
	if err != nil {
		return nil, err
	}
	records := make([]notification.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, notification.Record{MatchID: id})
	}
	return records, nil
}

func (r *NotificationRepository) loadLocked() ([]string, error) {
	var ids []string
	found, err := r.store.Get(notifiedKey, &ids)
	if err != nil {
		return nil, fmt.Errorf("load notified matches: %w", err)
	}
	if !found {
		return nil, nil
	}
	return ids, nil
}
