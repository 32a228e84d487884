package usecase

import (
	"context"
	"fmt"

	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/platform/cache"
	"github.com/razorbill/livematch/internal/platform/logging"
)

const directoryCacheKey = "sports-directory"

// DirectoryService caches the sports directory: populated on first access,
// held for the rest of the session until Invalidate, and mirrored into the
// persisted repository so the cache survives restarts. Persistence is
// best-effort; a failing store degrades to a plain fetch and is never
// surfaced to callers.
type DirectoryService struct {
	gateway MatchGateway
	repo    sport.Repository
	logger  *logging.Logger
	cache   *cache.Store
}

func NewDirectoryService(gateway MatchGateway, repo sport.Repository, logger *logging.Logger) *DirectoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DirectoryService{
		gateway: gateway,
		repo:    repo,
		logger:  logger,
		cache:   cache.NewStore(0),
	}
}

// Sports returns the cached directory, loading it on first access: persisted
// copy first, then the remote endpoint. Once populated the cache is treated
// as valid for the whole session; a failed refresh is never attempted on top
// of a good cache.
func (s *DirectoryService) Sports(ctx context.Context) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DirectoryService.Sports")
	defer span.End()

	out, err := s.cache.GetOrLoad(ctx, directoryCacheKey, func(ctx context.Context) (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	sports, ok := out.([]sport.Sport)
	if !ok {
		return nil, fmt.Errorf("unexpected directory cache payload type %T", out)
	}
	// An empty directory is a miss, not a cacheable value: the next call
	// retries instead of pinning a transiently empty feed for the session.
	if len(sports) == 0 {
		s.cache.Delete(ctx, directoryCacheKey)
	}
	return append([]sport.Sport(nil), sports...), nil
}

func (s *DirectoryService) load(ctx context.Context) ([]sport.Sport, error) {
	if s.repo != nil {
		persisted, loadErr := s.repo.Load(ctx)
		if loadErr != nil {
			s.logger.WarnContext(ctx, "load persisted sports directory failed", "error", loadErr)
		} else if len(persisted) > 0 {
			return persisted, nil
		}
	}

	fetched, fetchErr := s.gateway.Sports(ctx)
	if fetchErr != nil {
		return nil, fmt.Errorf("%w: sports directory: %v", ErrFetchFailed, fetchErr)
	}
	if s.repo != nil && len(fetched) > 0 {
		if saveErr := s.repo.Save(ctx, fetched); saveErr != nil {
			s.logger.WarnContext(ctx, "persist sports directory failed", "error", saveErr)
		}
	}
	return fetched, nil
}

// NameMap returns resolved category names keyed by sport id.
func (s *DirectoryService) NameMap(ctx context.Context) (map[string]string, error) {
	sports, err := s.Sports(ctx)
	if err != nil {
		return nil, err
	}
	return sport.NameMap(sports), nil
}

// Invalidate drops both the in-memory and the persisted copy. The next
// Sports call fetches fresh data.
func (s *DirectoryService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, directoryCacheKey)

	if s.repo == nil {
		return
	}
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear persisted sports directory failed", "error", err)
	}
}
