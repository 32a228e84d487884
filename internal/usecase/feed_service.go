package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/platform/logging"
)

const (
	defaultRetryBackoff = 1500 * time.Millisecond
	defaultFeedWorkers  = 8
)

type FeedServiceConfig struct {
	RetryBackoff time.Duration
	MaxWorkers   int
}

// FeedService fetches the live and today match feeds. Per-sport fan-out
// tolerates partial failures: a category that cannot be fetched contributes
// zero matches instead of aborting the aggregation.
type FeedService struct {
	gateway   MatchGateway
	directory *DirectoryService
	logger    *logging.Logger

	retryBackoff time.Duration
	maxWorkers   int
	now          func() time.Time
	location     *time.Location
}

func NewFeedService(gateway MatchGateway, directory *DirectoryService, cfg FeedServiceConfig, logger *logging.Logger) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	workers := cfg.MaxWorkers
	if workers < 1 {
		workers = defaultFeedWorkers
	}

	return &FeedService{
		gateway:      gateway,
		directory:    directory,
		logger:       logger,
		retryBackoff: backoff,
		maxWorkers:   workers,
		now:          time.Now,
		location:     time.Local,
	}
}

// FetchLiveMatches retrieves the live popular feed, retrying failed attempts
// up to maxRetries times with a fixed backoff between attempts.
func (s *FeedService) FetchLiveMatches(ctx context.Context, maxRetries int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.FetchLiveMatches")
	defer span.End()

	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		matches, err := s.gateway.LiveMatches(ctx)
		if err == nil {
			return match.DedupeByID(matches), nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		s.logger.WarnContext(ctx, "live feed fetch failed, retrying",
			"attempt", attempt+1,
			"backoff", s.retryBackoff,
			"error", err,
		)
		timer := time.NewTimer(s.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("%w: live matches: %v", ErrFetchFailed, lastErr)
}

// FetchTodayMatches retrieves the today popular feed without retry, keeping
// only matches that start on the current calendar day in the local zone. The
// endpoint is supposed to pre-filter; the local filter guards against the
// variants that do not.
func (s *FeedService) FetchTodayMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.FetchTodayMatches")
	defer span.End()

	matches, err := s.gateway.TodayMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: today matches: %v", ErrFetchFailed, err)
	}

	today := s.now()
	out := make([]match.Match, 0, len(matches))
	for _, item := range match.DedupeByID(matches) {
		if item.Date.IsZero() || item.StartsOn(today, s.location) {
			out = append(out, item)
		}
	}
	return out, nil
}

// FetchTodayBySport fans out one request per known sport and groups the
// results by category. Failing categories are logged and skipped.
func (s *FeedService) FetchTodayBySport(ctx context.Context) (map[string][]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.FetchTodayBySport")
	defer span.End()

	sports, err := s.directory.Sports(ctx)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create feed worker pool: %w", err)
	}
	defer pool.Release()

	today := s.now()
	results := make(map[string][]match.Match, len(sports))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, item := range sports {
		sportID := item.ID
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()

			matches, fetchErr := s.gateway.MatchesBySport(ctx, sportID)
			if fetchErr != nil {
				s.logger.WarnContext(ctx, "per-sport feed fetch failed, skipping category",
					"sport_id", sportID,
					"error", fetchErr,
				)
				return
			}

			kept := make([]match.Match, 0, len(matches))
			for _, m := range match.DedupeByID(matches) {
				if m.StartsOn(today, s.location) {
					kept = append(kept, m)
				}
			}
			if len(kept) == 0 {
				return
			}

			mu.Lock()
			results[sportID] = kept
			mu.Unlock()
		}); submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit feed task to worker pool: %w", submitErr)
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, nil
}

// MatchByID looks a match up in the popular feed.
func (s *FeedService) MatchByID(ctx context.Context, id string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.MatchByID")
	defer span.End()

	if id == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	matches, err := s.gateway.AllMatches(ctx)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: match lookup: %v", ErrFetchFailed, err)
	}
	for _, item := range matches {
		if item.ID == id {
			return item, nil
		}
	}
	return match.Match{}, fmt.Errorf("%w: match %q", ErrNotFound, id)
}
