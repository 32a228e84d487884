package usecase

import (
	"testing"
	"time"

	"github.com/razorbill/livematch/internal/domain/match"
)

func TestMergeBadgesBackfillsByTeamName(t *testing.T) {
	t.Parallel()

	live := []match.Match{
		{
			ID:   "m1",
			Home: match.Team{Name: "Arsenal"},
			Away: match.Team{Name: "Chelsea", Badge: "existing"},
		},
		{
			ID:   "m2",
			Home: match.Team{Name: "Unknown FC"},
			Away: match.Team{Name: "Lakers"},
		},
	}
	reference := []match.Match{
		{
			Home: match.Team{Name: "Arsenal", Badge: "arsenal-badge"},
			Away: match.Team{Name: "Chelsea", Badge: "chelsea-badge"},
		},
		{
			Home: match.Team{Name: "Lakers", Badge: "lakers-badge"},
		},
		{
			// Later duplicate must not overwrite the first indexed badge.
			Home: match.Team{Name: "Arsenal", Badge: "late-badge"},
		},
	}

	got := MergeBadges(live, reference)

	if got[0].Home.Badge != "arsenal-badge" {
		t.Fatalf("expected backfilled home badge, got %q", got[0].Home.Badge)
	}
	if got[0].Away.Badge != "existing" {
		t.Fatalf("existing badge must be kept, got %q", got[0].Away.Badge)
	}
	if got[1].Home.Badge != "" {
		t.Fatalf("team without reference entry must keep empty badge, got %q", got[1].Home.Badge)
	}
	if got[1].Away.Badge != "lakers-badge" {
		t.Fatalf("expected backfilled away badge, got %q", got[1].Away.Badge)
	}
	if live[0].Home.Badge != "" {
		t.Fatal("input slice must not be mutated")
	}
}

func TestSortCategoriesFootballFirst(t *testing.T) {
	t.Parallel()

	groups := map[string][]match.Match{
		"tennis":     {{ID: "t1", Category: "tennis"}},
		"football":   {{ID: "f1", Category: "football"}},
		"basketball": {{ID: "b1", Category: "basketball"}},
		"mystery":    {{ID: "x1", Category: "mystery"}},
	}
	names := map[string]string{
		"tennis":     "Tennis",
		"football":   "Football",
		"basketball": "Basketball",
		// mystery has no resolved name.
	}

	got := SortCategories(groups, names)

	if len(got) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(got))
	}
	if got[0].Category != "football" {
		t.Fatalf("football must sort first, got %q", got[0].Category)
	}
	if got[1].Category != "mystery" {
		t.Fatalf("unnamed category sorts as empty string, got %q", got[1].Category)
	}
	if got[2].Category != "basketball" || got[3].Category != "tennis" {
		t.Fatalf("remaining groups must follow name order, got %q then %q", got[2].Category, got[3].Category)
	}
}

func TestSortMatchesForDisplay(t *testing.T) {
	t.Parallel()

	early := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	late := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	in := []match.Match{
		{ID: "plain-late", Date: late},
		{ID: "popular-early", Date: early, Popular: true},
		{ID: "plain-early", Date: early},
		{ID: "popular-late", Date: late, Popular: true},
	}

	got := SortMatchesForDisplay(in)

	want := []string{"popular-late", "popular-early", "plain-late", "plain-early"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, got[i].ID)
		}
	}
	if in[0].ID != "plain-late" {
		t.Fatal("input slice must not be reordered")
	}
}

func TestFilterByTeamName(t *testing.T) {
	t.Parallel()

	in := []match.Match{
		{ID: "m1", Home: match.Team{Name: "Real Madrid"}, Away: match.Team{Name: "Barcelona"}},
		{ID: "m2", Home: match.Team{Name: "Arsenal"}, Away: match.Team{Name: "Chelsea"}},
		{ID: "m3", Home: match.Team{Name: "Atletico Madrid"}, Away: match.Team{Name: "Sevilla"}},
	}

	got := FilterByTeamName(in, "  MADRID ")
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	all := FilterByTeamName(in, "")
	if len(all) != len(in) {
		t.Fatalf("empty term must keep everything, got %d", len(all))
	}

	none := FilterByTeamName(in, "liverpool")
	if len(none) != 0 {
		t.Fatalf("expected no results, got %d", len(none))
	}
}

func TestGroupByCategory(t *testing.T) {
	t.Parallel()

	in := []match.Match{
		{ID: "f1", Category: "football"},
		{ID: "b1", Category: "basketball"},
		{ID: "f2", Category: "football"},
	}

	got := GroupByCategory(in)

	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if len(got["football"]) != 2 || got["football"][0].ID != "f1" || got["football"][1].ID != "f2" {
		t.Fatalf("unexpected football bucket: %+v", got["football"])
	}
}
