package notification

import "context"

// Repository persists the reminder dedup set.
type Repository interface {
	// Add records the match id. It returns false when the id was already
	// present.
	Add(ctx context.Context, matchID string) (bool, error)
	Has(ctx context.Context, matchID string) (bool, error)
	List(ctx context.Context) ([]Record, error)
}
