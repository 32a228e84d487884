package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/playback"
	"github.com/razorbill/livematch/internal/domain/stream"
	"github.com/razorbill/livematch/internal/platform/logging"
)

type stubStreamGateway struct {
	streamsFn func(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error)
}

func (g *stubStreamGateway) Streams(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
	return g.streamsFn(ctx, ref)
}

func TestStreamServiceResolvesInSourceOrder(t *testing.T) {
	t.Parallel()

	refs := []match.SourceRef{
		{Source: "alpha", ID: "a"},
		{Source: "bravo", ID: "b"},
		{Source: "charlie", ID: "c"},
	}
	gateway := &stubStreamGateway{
		streamsFn: func(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
			// First source finishes last; order must still follow refs.
			if ref.Source == "alpha" {
				time.Sleep(30 * time.Millisecond)
			}
			return []stream.Descriptor{
				{ID: ref.ID, StreamNo: 1, Source: ref.Source, EmbedURL: "https://example.com/" + ref.ID},
			}, nil
		},
	}
	service := NewStreamService(gateway, logging.NewNop())

	got := service.ResolveStreams(context.Background(), refs)

	if len(got) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(got))
	}
	for i, source := range []string{"alpha", "bravo", "charlie"} {
		if got[i].Source != source {
			t.Fatalf("position %d: expected source %q, got %q", i, source, got[i].Source)
		}
	}
}

func TestStreamServiceSkipsFailingSources(t *testing.T) {
	t.Parallel()

	refs := []match.SourceRef{
		{Source: "alpha", ID: "a"},
		{Source: "broken", ID: "b"},
		{Source: "charlie", ID: "c"},
	}
	gateway := &stubStreamGateway{
		streamsFn: func(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
			if ref.Source == "broken" {
				return nil, errors.New("provider down")
			}
			return []stream.Descriptor{
				{ID: ref.ID, StreamNo: 1, Source: ref.Source, EmbedURL: "https://example.com/" + ref.ID},
			}, nil
		},
	}
	service := NewStreamService(gateway, logging.NewNop())

	got := service.ResolveStreams(context.Background(), refs)

	if len(got) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(got))
	}
	if got[0].Source != "alpha" || got[1].Source != "charlie" {
		t.Fatalf("unexpected sources: %q, %q", got[0].Source, got[1].Source)
	}
}

func TestStreamServiceDropsUnplayableEntries(t *testing.T) {
	t.Parallel()

	gateway := &stubStreamGateway{
		streamsFn: func(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
			return []stream.Descriptor{
				{ID: "1", StreamNo: 1, Source: ref.Source, EmbedURL: "https://example.com/1"},
				{ID: "2", StreamNo: 2, Source: ref.Source}, // no embed URL
			}, nil
		},
	}
	service := NewStreamService(gateway, logging.NewNop())

	got := service.ResolveStreams(context.Background(), []match.SourceRef{{Source: "alpha", ID: "a"}})

	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the playable stream, got %+v", got)
	}
}

func TestStreamServiceResolveForMatch(t *testing.T) {
	t.Parallel()

	gateway := &stubStreamGateway{
		streamsFn: func(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
			return nil, errors.New("provider down")
		},
	}
	service := NewStreamService(gateway, logging.NewNop())

	c := service.ResolveForMatch(context.Background(), match.Match{
		ID:      "m1",
		Sources: []match.SourceRef{{Source: "alpha", ID: "a"}},
	})
	if c.State() != playback.StateEmpty {
		t.Fatalf("expected empty controller when every source fails, got %s", c.State())
	}
}
