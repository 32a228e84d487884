package file

import (
	"context"
	"fmt"

	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/platform/storage"
)

// sportsKey matches the storage key the original front end used, so a store
// written by one session is readable by the next.
const sportsKey = "sportsData"

type sportRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SportRepository persists the sports directory in the key-value store.
type SportRepository struct {
	store *storage.Store
}

func NewSportRepository(store *storage.Store) *SportRepository {
	return &SportRepository{store: store}
}

func (r *SportRepository) Load(_ context.Context) ([]sport.Sport, error) {
	var records []sportRecord
	found, err := r.store.Get(sportsKey, &records)
	if err != nil {
		return nil, fmt.Errorf("load sports directory: %w", err)
	}
	if !found {
		return nil, nil
	}

	out := make([]sport.Sport, 0, len(records))
	for _, item := range records {
		if item.ID == "" {
			continue
		}
		out = append(out, sport.Sport{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func (r *SportRepository) Save(_ context.Context, sports []sport.Sport) error {
	records := make([]sportRecord, 0, len(sports))
	for _, item := range sports {
		records = append(records, sportRecord{ID: item.ID, Name: item.Name})
	}
	if err := r.store.Set(sportsKey, records); err != nil {
		return fmt.Errorf("save sports directory: %w", err)
	}
	return nil
}

func (r *SportRepository) Clear(_ context.Context) error {
	if err := r.store.Delete(sportsKey); err != nil {
		return fmt.Errorf("clear sports directory: %w", err)
	}
	return nil
}
