package usecase

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/platform/logging"
)

type stubMatchGateway struct {
	sportsFn  func(ctx context.Context) ([]sport.Sport, error)
	liveFn    func(ctx context.Context) ([]match.Match, error)
	todayFn   func(ctx context.Context) ([]match.Match, error)
	bySportFn func(ctx context.Context, sportID string) ([]match.Match, error)
	allFn     func(ctx context.Context) ([]match.Match, error)
}

func (g *stubMatchGateway) Sports(ctx context.Context) ([]sport.Sport, error) {
	return g.sportsFn(ctx)
}

func (g *stubMatchGateway) LiveMatches(ctx context.Context) ([]match.Match, error) {
	return g.liveFn(ctx)
}

func (g *stubMatchGateway) TodayMatches(ctx context.Context) ([]match.Match, error) {
	return g.todayFn(ctx)
}

func (g *stubMatchGateway) MatchesBySport(ctx context.Context, sportID string) ([]match.Match, error) {
	return g.bySportFn(ctx, sportID)
}

func (g *stubMatchGateway) AllMatches(ctx context.Context) ([]match.Match, error) {
	return g.allFn(ctx)
}

func TestFeedServiceFetchLiveRetriesOnceThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gateway := &stubMatchGateway{
		liveFn: func(ctx context.Context) ([]match.Match, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("connection reset")
			}
			return []match.Match{{ID: "m1"}}, nil
		},
	}
	service := NewFeedService(gateway, nil, FeedServiceConfig{RetryBackoff: time.Millisecond}, logging.NewNop())

	got, err := service.FetchLiveMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchLiveMatches error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestFeedServiceFetchLiveExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gateway := &stubMatchGateway{
		liveFn: func(ctx context.Context) ([]match.Match, error) {
			calls.Add(1)
			return nil, errors.New("upstream down")
		},
	}
	service := NewFeedService(gateway, nil, FeedServiceConfig{RetryBackoff: time.Millisecond}, logging.NewNop())

	_, err := service.FetchLiveMatches(context.Background(), 1)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected exactly 2 attempts for maxRetries=1, got %d", n)
	}
}

func TestFeedServiceFetchLiveStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	gateway := &stubMatchGateway{
		liveFn: func(ctx context.Context) ([]match.Match, error) {
			return nil, errors.New("upstream down")
		},
	}
	service := NewFeedService(gateway, nil, FeedServiceConfig{RetryBackoff: time.Hour}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := service.FetchLiveMatches(ctx, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled while waiting for backoff, got %v", err)
	}
}

func TestFeedServiceFetchTodayFiltersByLocalDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	gateway := &stubMatchGateway{
		todayFn: func(ctx context.Context) ([]match.Match, error) {
			return []match.Match{
				{ID: "today", Date: now.Add(6 * time.Hour)},
				{ID: "tomorrow", Date: now.Add(26 * time.Hour)},
				{ID: "undated"},
			}, nil
		},
	}
	service := NewFeedService(gateway, nil, FeedServiceConfig{}, logging.NewNop())
	service.now = func() time.Time { return now }
	service.location = time.UTC

	got, err := service.FetchTodayMatches(context.Background())
	if err != nil {
		t.Fatalf("FetchTodayMatches error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "today" || got[1].ID != "undated" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}

func TestFeedServiceFetchTodayBySportSkipsFailingCategories(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	gateway := &stubMatchGateway{
		sportsFn: func(ctx context.Context) ([]sport.Sport, error) {
			return []sport.Sport{
				{ID: "football", Name: "Football"},
				{ID: "tennis", Name: "Tennis"},
				{ID: "basketball", Name: "Basketball"},
			}, nil
		},
		bySportFn: func(ctx context.Context, sportID string) ([]match.Match, error) {
			switch sportID {
			case "tennis":
				return nil, errors.New("upstream down")
			case "basketball":
				return nil, nil
			default:
				return []match.Match{
					{ID: "f1", Category: sportID, Date: now.Add(time.Hour)},
					{ID: "f2", Category: sportID, Date: now.Add(30 * time.Hour)},
				}, nil
			}
		},
	}
	directory := NewDirectoryService(gateway, nil, logging.NewNop())
	service := NewFeedService(gateway, directory, FeedServiceConfig{MaxWorkers: 2}, logging.NewNop())
	service.now = func() time.Time { return now }
	service.location = time.UTC

	got, err := service.FetchTodayBySport(context.Background())
	if err != nil {
		t.Fatalf("FetchTodayBySport error: %v", err)
	}

	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != 1 || keys[0] != "football" {
		t.Fatalf("expected only the football bucket, got %v", keys)
	}
	if len(got["football"]) != 1 || got["football"][0].ID != "f1" {
		t.Fatalf("expected only today's football match, got %+v", got["football"])
	}
}

func TestFeedServiceMatchByID(t *testing.T) {
	t.Parallel()

	gateway := &stubMatchGateway{
		allFn: func(ctx context.Context) ([]match.Match, error) {
			return []match.Match{{ID: "m1"}, {ID: "m2", Title: "target"}}, nil
		},
	}
	service := NewFeedService(gateway, nil, FeedServiceConfig{}, logging.NewNop())

	got, err := service.MatchByID(context.Background(), "m2")
	if err != nil {
		t.Fatalf("MatchByID error: %v", err)
	}
	if got.Title != "target" {
		t.Fatalf("unexpected match: %+v", got)
	}

	if _, err := service.MatchByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.MatchByID(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
