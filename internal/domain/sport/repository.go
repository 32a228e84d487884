package sport

import "context"

// Repository persists the fetched directory so it survives restarts.
type Repository interface {
	Load(ctx context.Context) ([]Sport, error)
	Save(ctx context.Context, sports []Sport) error
	Clear(ctx context.Context) error
}
