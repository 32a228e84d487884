package match

import (
	"strings"
	"time"
)

// Team is one side of a match. Badge is an image reference resolved by the
// feed's badge endpoint, empty when the feed did not include one.
type Team struct {
	Name  string
	Badge string
}

// SourceRef points at a third-party provider's record for a match. It is not
// itself playable; resolving it may yield zero or more streams.
type SourceRef struct {
	Source string
	ID     string
}

// Match is a single sporting event. ID is stable across the live and today
// feeds and is the join key when merging them.
type Match struct {
	ID       string
	Title    string
	Category string
	Date     time.Time
	Popular  bool
	Home     Team
	Away     Team
	Sources  []SourceRef
	Viewers  int
}

func (m Match) HasSources() bool {
	return len(m.Sources) > 0
}

// StartsOn reports whether the match starts on the given calendar day in loc.
func (m Match) StartsOn(day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	y1, m1, d1 := m.Date.In(loc).Date()
	y2, m2, d2 := day.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Merge combines two records for the same match id, preferring the more
// complete fields. Badges and sources differ between feeds; a present value
// always wins over an absent one.
func Merge(base, other Match) Match {
	if base.ID == "" {
		return other
	}
	if base.Title == "" {
		base.Title = other.Title
	}
	if base.Category == "" {
		base.Category = other.Category
	}
	if base.Date.IsZero() {
		base.Date = other.Date
	}
	base.Popular = base.Popular || other.Popular
	base.Home = mergeTeam(base.Home, other.Home)
	base.Away = mergeTeam(base.Away, other.Away)
	if len(base.Sources) == 0 {
		base.Sources = other.Sources
	}
	if base.Viewers < other.Viewers {
		base.Viewers = other.Viewers
	}
	return base
}

func mergeTeam(base, other Team) Team {
	if strings.TrimSpace(base.Name) == "" {
		base.Name = other.Name
	}
	if strings.TrimSpace(base.Badge) == "" {
		base.Badge = other.Badge
	}
	return base
}

// DedupeByID collapses records sharing an id, merging duplicates and keeping
// first-seen order.
func DedupeByID(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	index := make(map[string]int, len(matches))
	for _, item := range matches {
		if item.ID == "" {
			continue
		}
		if at, seen := index[item.ID]; seen {
			out[at] = Merge(out[at], item)
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
