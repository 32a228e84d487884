package streamed

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/domain/stream"
)

// Wire shapes for the streaming directory API. Payloads are validated before
// they are mapped into domain types; rows failing validation are dropped at
// the boundary instead of propagating half-formed data.

var validate = validator.New()

type sportPayload struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type teamPayload struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

type teamsPayload struct {
	Home *teamPayload `json:"home"`
	Away *teamPayload `json:"away"`
}

type sourcePayload struct {
	Source string `json:"source" validate:"required"`
	ID     string `json:"id" validate:"required"`
}

type matchPayload struct {
	ID       string          `json:"id" validate:"required"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Date     int64           `json:"date"`
	Poster   string          `json:"poster"`
	Popular  bool            `json:"popular"`
	Teams    *teamsPayload   `json:"teams"`
	Sources  []sourcePayload `json:"sources"`
	Viewers  int             `json:"viewers"`
}

type streamPayload struct {
	ID       string `json:"id"`
	StreamNo int    `json:"streamNo"`
	Language string `json:"language"`
	HD       bool   `json:"hd"`
	EmbedURL string `json:"embedUrl"`
	Source   string `json:"source"`
	Viewers  int    `json:"viewers"`
}

func mapSports(items []sportPayload) []sport.Sport {
	out := make([]sport.Sport, 0, len(items))
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			continue
		}
		out = append(out, sport.Sport{
			ID:   strings.TrimSpace(item.ID),
			Name: strings.TrimSpace(item.Name),
		})
	}
	return out
}

func mapMatches(items []matchPayload) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			continue
		}
		out = append(out, mapMatch(item))
	}
	return out
}

func mapMatch(item matchPayload) match.Match {
	mapped := match.Match{
		ID:       strings.TrimSpace(item.ID),
		Title:    strings.TrimSpace(item.Title),
		Category: strings.TrimSpace(item.Category),
		Popular:  item.Popular,
		Viewers:  item.Viewers,
	}
	// The feed reports start times as epoch milliseconds.
	if item.Date > 0 {
		mapped.Date = time.UnixMilli(item.Date).UTC()
	}
	if item.Teams != nil {
		mapped.Home = mapTeam(item.Teams.Home)
		mapped.Away = mapTeam(item.Teams.Away)
	}
	mapped.Sources = make([]match.SourceRef, 0, len(item.Sources))
	for _, src := range item.Sources {
		if err := validate.Struct(src); err != nil {
			continue
		}
		mapped.Sources = append(mapped.Sources, match.SourceRef{
			Source: strings.TrimSpace(src.Source),
			ID:     strings.TrimSpace(src.ID),
		})
	}
	return mapped
}

func mapTeam(item *teamPayload) match.Team {
	if item == nil {
		return match.Team{}
	}
	return match.Team{
		Name:  strings.TrimSpace(item.Name),
		Badge: strings.TrimSpace(item.Badge),
	}
}

func mapStreams(items []streamPayload) []stream.Descriptor {
	out := make([]stream.Descriptor, 0, len(items))
	for _, item := range items {
		out = append(out, stream.Descriptor{
			ID:       strings.TrimSpace(item.ID),
			StreamNo: item.StreamNo,
			Language: strings.TrimSpace(item.Language),
			HD:       item.HD,
			EmbedURL: strings.TrimSpace(item.EmbedURL),
			Source:   strings.TrimSpace(item.Source),
			Viewers:  item.Viewers,
		})
	}
	return out
}
