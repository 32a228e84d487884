package usecase

import (
	"context"

	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/domain/stream"
)

// MatchGateway is the remote feed contract. The streamed client implements
// it; tests substitute counting fakes.
type MatchGateway interface {
	Sports(ctx context.Context) ([]sport.Sport, error)
	LiveMatches(ctx context.Context) ([]match.Match, error)
	TodayMatches(ctx context.Context) ([]match.Match, error)
	MatchesBySport(ctx context.Context, sportID string) ([]match.Match, error)
	AllMatches(ctx context.Context) ([]match.Match, error)
}

// StreamGateway resolves one source reference into playable streams.
type StreamGateway interface {
	Streams(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error)
}
