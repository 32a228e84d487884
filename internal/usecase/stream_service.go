package usecase

import (
	"context"

	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/playback"
	"github.com/razorbill/livematch/internal/domain/stream"
	"github.com/razorbill/livematch/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// StreamService resolves a match's source references into playable streams.
// Resolution never fails as a whole: each provider outage only loses that
// provider's contribution, and "no streams" is an empty result, not an error.
type StreamService struct {
	gateway StreamGateway
	logger  *logging.Logger
}

func NewStreamService(gateway StreamGateway, logger *logging.Logger) *StreamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StreamService{gateway: gateway, logger: logger}
}

// ResolveStreams fetches every source reference concurrently and flattens the
// results in source-ref order, regardless of completion order. Entries
// without an embed URL are dropped.
func (s *StreamService) ResolveStreams(ctx context.Context, refs []match.SourceRef) []stream.Descriptor {
	ctx, span := startUsecaseSpan(ctx, "usecase.StreamService.ResolveStreams")
	defer span.End()

	perSource := make([][]stream.Descriptor, len(refs))
	var wg conc.WaitGroup
	for i, ref := range refs {
		i, ref := i, ref
		wg.Go(func() {
			resolved, err := s.gateway.Streams(ctx, ref)
			if err != nil {
				s.logger.WarnContext(ctx, "stream resolution failed, skipping source",
					"source", ref.Source,
					"source_id", ref.ID,
					"error", err,
				)
				return
			}
			perSource[i] = resolved
		})
	}
	wg.Wait()

	out := make([]stream.Descriptor, 0, len(refs))
	for _, resolved := range perSource {
		for _, item := range resolved {
			if item.Playable() {
				out = append(out, item)
			}
		}
	}
	return out
}

// ResolveForMatch resolves the match's streams and hands back a fresh
// fallback controller over them.
func (s *StreamService) ResolveForMatch(ctx context.Context, m match.Match) *playback.Controller {
	return playback.NewController(s.ResolveStreams(ctx, m.Sources))
}
