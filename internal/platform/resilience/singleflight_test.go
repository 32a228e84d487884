package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentFeedRequests(t *testing.T) {
	var g SingleFlight
	var fetches int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	shared := make([]bool, workers)

	for i := 0; i < workers; i++ {
		i := i
		go func() {
			defer wg.Done()
			<-start
			payload, err, wasShared := g.Do("/api/matches/live/popular", func() (any, error) {
				atomic.AddInt32(&fetches, 1)
				time.Sleep(20 * time.Millisecond)
				return `[{"id":"m1"}]`, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
				return
			}
			if got, _ := payload.(string); got != `[{"id":"m1"}]` {
				t.Errorf("unexpected shared payload %v", payload)
			}
			shared[i] = wasShared
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Fatalf("expected one upstream fetch, got %d", got)
	}
	sharedCount := 0
	for _, s := range shared {
		if s {
			sharedCount++
		}
	}
	if sharedCount != workers-1 {
		t.Fatalf("expected %d callers to share the in-flight result, got %d", workers-1, sharedCount)
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight
	var fetches int32

	fetch := func() (any, error) {
		atomic.AddInt32(&fetches, 1)
		return nil, nil
	}

	if _, err, shared := g.Do("/api/sports", fetch); err != nil || shared {
		t.Fatalf("first key: err=%v shared=%v", err, shared)
	}
	if _, err, shared := g.Do("/api/matches/today/popular", fetch); err != nil || shared {
		t.Fatalf("second key: err=%v shared=%v", err, shared)
	}
	// The first flight has finished, so the same key runs again.
	if _, err, shared := g.Do("/api/sports", fetch); err != nil || shared {
		t.Fatalf("repeat key: err=%v shared=%v", err, shared)
	}

	if got := atomic.LoadInt32(&fetches); got != 3 {
		t.Fatalf("expected three fetches, got %d", got)
	}
}
