package usecase

import (
	"sort"
	"strings"

	"github.com/razorbill/livematch/internal/domain/match"
)

// Aggregation over fetched match lists: badge backfill, category grouping and
// the display ordering rules.

// MergeBadges backfills missing team badges on live records from a reference
// list, matched by exact team display name. Teams with no reference entry
// keep an empty badge.
func MergeBadges(live, reference []match.Match) []match.Match {
	badgeByName := make(map[string]string, len(reference)*2)
	for _, item := range reference {
		indexBadge(badgeByName, item.Home)
		indexBadge(badgeByName, item.Away)
	}

	out := make([]match.Match, len(live))
	for i, item := range live {
		if item.Home.Badge == "" {
			item.Home.Badge = badgeByName[item.Home.Name]
		}
		if item.Away.Badge == "" {
			item.Away.Badge = badgeByName[item.Away.Name]
		}
		out[i] = item
	}
	return out
}

func indexBadge(index map[string]string, team match.Team) {
	if team.Name == "" || team.Badge == "" {
		return
	}
	if _, exists := index[team.Name]; !exists {
		index[team.Name] = team.Badge
	}
}

// GroupByCategory buckets matches by their sport category id.
func GroupByCategory(matches []match.Match) map[string][]match.Match {
	out := make(map[string][]match.Match)
	for _, item := range matches {
		out[item.Category] = append(out[item.Category], item)
	}
	return out
}

// CategoryGroup is one ordered bucket of the grouped feed.
type CategoryGroup struct {
	Category string
	Name     string
	Matches  []match.Match
}

// SortCategories orders grouped matches for display: a category whose
// resolved name is "football" sorts first regardless of case, the rest follow
// case-insensitive lexicographic name order. Categories without a resolved
// name sort as the empty string.
func SortCategories(groups map[string][]match.Match, names map[string]string) []CategoryGroup {
	out := make([]CategoryGroup, 0, len(groups))
	for category, matches := range groups {
		out = append(out, CategoryGroup{
			Category: category,
			Name:     names[category],
			Matches:  matches,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a := strings.ToLower(out[i].Name)
		b := strings.ToLower(out[j].Name)
		if (a == "football") != (b == "football") {
			return a == "football"
		}
		if a != b {
			return a < b
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SortMatchesForDisplay orders matches for rendering: popular first, then
// most recent start time first.
func SortMatchesForDisplay(matches []match.Match) []match.Match {
	out := append([]match.Match(nil), matches...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Popular != out[j].Popular {
			return out[i].Popular
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// FilterByTeamName keeps matches where either team name contains the search
// term, case-insensitively. An empty term keeps everything.
func FilterByTeamName(matches []match.Match, term string) []match.Match {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]match.Match(nil), matches...)
	}

	out := make([]match.Match, 0, len(matches))
	for _, item := range matches {
		home := strings.ToLower(item.Home.Name)
		away := strings.ToLower(item.Away.Name)
		if strings.Contains(home, term) || strings.Contains(away, term) {
			out = append(out, item)
		}
	}
	return out
}
