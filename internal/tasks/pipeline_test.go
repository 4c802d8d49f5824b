package tasks

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	tu "github.com/desertthunder/moodmix/internal/testing"
)

func TestDedupeBy(t *testing.T) {
	t.Run("keeps first occurrences in order", func(t *testing.T) {
		tracks := []models.Track{
			{ID: "a", Name: "first a"},
			{ID: "b"},
			{ID: "a", Name: "second a"},
			{ID: "c"},
			{ID: "b"},
		}

		got := DedupeTracks(tracks)
		if ids := tu.TrackIDs(got); !slices.Equal(ids, []string{"a", "b", "c"}) {
			t.Fatalf("expected [a b c], got %v", ids)
		}
		if got[0].Name != "first a" {
			t.Errorf("expected first occurrence to win, got %q", got[0].Name)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := []int{3, 1, 3, 2, 1, 4}
		once := DedupeBy(in, func(i int) int { return i })
		twice := DedupeBy(once, func(i int) int { return i })
		if !slices.Equal(once, twice) || !slices.Equal(once, []int{3, 1, 2, 4}) {
			t.Errorf("unexpected dedupe results %v, %v", once, twice)
		}
	})

	t.Run("custom key", func(t *testing.T) {
		words := []string{"Jazz", "jazz", "Rock", "JAZZ"}
		got := DedupeBy(words, func(s string) int { return len(s) })
		if !slices.Equal(got, []string{"Jazz"}) {
			t.Errorf("expected only the first four-letter word, got %v", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := DedupeTracks(nil); len(got) != 0 {
			t.Errorf("expected empty output, got %v", got)
		}
	})
}

func TestSample(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	t.Run("length is min of n and input", func(t *testing.T) {
		tests := []struct {
			n    int
			want int
		}{
			{n: 3, want: 3},
			{n: 10, want: 10},
			{n: 30, want: 10},
			{n: 0, want: 0},
		}

		for _, tt := range tests {
			if got := Sample(items, tt.n, rng); len(got) != tt.want {
				t.Errorf("Sample(n=%d): expected %d items, got %d", tt.n, tt.want, len(got))
			}
		}
	})

	t.Run("nil rng uses a random source", func(t *testing.T) {
		got := Sample(items, 5, nil)
		if len(got) != 5 {
			t.Fatalf("expected 5 items, got %d", len(got))
		}
		for _, v := range got {
			if !slices.Contains(items, v) {
				t.Errorf("sampled %d which is not in the input", v)
			}
		}
	})

	t.Run("draws without replacement from the input", func(t *testing.T) {
		for range 50 {
			got := Sample(items, 4, rng)
			seen := map[int]bool{}
			for _, v := range got {
				if !slices.Contains(items, v) {
					t.Fatalf("sampled %d which is not in the input", v)
				}
				if seen[v] {
					t.Fatalf("sampled %d twice", v)
				}
				seen[v] = true
			}
		}
	})

	t.Run("small input yields a permutation", func(t *testing.T) {
		got := Sample(items, 30, rng)
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, items) {
			t.Errorf("expected a permutation of the input, got %v", got)
		}
	})

	t.Run("does not modify the input", func(t *testing.T) {
		in := slices.Clone(items)
		Sample(in, 5, rng)
		if !slices.Equal(in, items) {
			t.Errorf("input was modified: %v", in)
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		a := Sample(items, 5, rand.New(rand.NewPCG(9, 9)))
		b := Sample(items, 5, rand.New(rand.NewPCG(9, 9)))
		if !slices.Equal(a, b) {
			t.Errorf("expected equal samples for equal seeds, got %v and %v", a, b)
		}
	})

	t.Run("every element can come first", func(t *testing.T) {
		first := map[int]int{}
		for range 2000 {
			first[Sample(items[:4], 1, rng)[0]]++
		}
		for _, v := range items[:4] {
			if first[v] == 0 {
				t.Errorf("element %d was never sampled first", v)
			}
		}
	})
}

func TestTrackFilter(t *testing.T) {
	t.Run("decade is half open", func(t *testing.T) {
		f := NewTrackFilter(models.Preferences{Decades: []string{"1990s"}})

		tests := []struct {
			date string
			want bool
		}{
			{date: "1995", want: true},
			{date: "1990-01-01", want: true},
			{date: "1999-12", want: true},
			{date: "1989-12-31", want: false},
			{date: "2000", want: false},
			{date: "", want: false},
			{date: "unknown", want: false},
		}

		for _, tt := range tests {
			if got := f.MatchesDecade(tu.NewTrack("t", tt.date, 50)); got != tt.want {
				t.Errorf("release date %q: expected %v, got %v", tt.date, tt.want, got)
			}
		}
	})

	t.Run("any selected decade matches", func(t *testing.T) {
		f := NewTrackFilter(models.Preferences{Decades: []string{"1960s", "2010s"}})
		if !f.MatchesDecade(tu.NewTrack("t", "1965", 0)) || !f.MatchesDecade(tu.NewTrack("t", "2012-05-01", 0)) {
			t.Error("expected both decades to match")
		}
		if f.MatchesDecade(tu.NewTrack("t", "1985", 0)) {
			t.Error("expected 1985 to fail")
		}
	})

	t.Run("popularity bounds are inclusive", func(t *testing.T) {
		f := NewTrackFilter(models.Preferences{Popularity: &models.Popularity{Mode: models.PopularitySlider, Min: 50, Max: 80}})

		tests := []struct {
			popularity int
			want       bool
		}{
			{popularity: 50, want: true},
			{popularity: 80, want: true},
			{popularity: 65, want: true},
			{popularity: 81, want: false},
			{popularity: 49, want: false},
		}

		for _, tt := range tests {
			if got := f.MatchesPopularity(tu.NewTrack("t", "2000", tt.popularity)); got != tt.want {
				t.Errorf("popularity %d: expected %v, got %v", tt.popularity, tt.want, got)
			}
		}
	})

	t.Run("absent dimensions match everything", func(t *testing.T) {
		f := NewTrackFilter(models.Preferences{})
		if !f.Matches(tu.NewTrack("t", "", 0)) {
			t.Error("expected empty preferences to accept any track")
		}
	})

	t.Run("dimensions combine with and", func(t *testing.T) {
		prefs := models.Preferences{
			Decades:    []string{"1970s"},
			Popularity: &models.Popularity{Mode: models.PopularitySlider, Min: 40, Max: 100},
		}
		tracks := []models.Track{
			tu.NewTrack("keep", "1975", 60),
			tu.NewTrack("old", "1965", 60),
			tu.NewTrack("obscure", "1975", 10),
			tu.NewTrack("keep2", "1970-03-01", 40),
		}

		got := FilterTracks(tracks, prefs)
		if ids := tu.TrackIDs(got); !slices.Equal(ids, []string{"keep", "keep2"}) {
			t.Errorf("expected [keep keep2], got %v", ids)
		}
	})
}

func TestExcludeIDs(t *testing.T) {
	tracks := tu.NewTracks("t", 4, "2000", 50)
	present := map[string]bool{"t2": true, "t4": true}

	got := ExcludeIDs(tracks, func(id string) bool { return present[id] })
	if ids := tu.TrackIDs(got); !slices.Equal(ids, []string{"t1", "t3"}) {
		t.Errorf("expected [t1 t3], got %v", ids)
	}

	if got := ExcludeIDs(tracks, nil); len(got) != 4 {
		t.Errorf("expected nil predicate to keep everything, got %d", len(got))
	}
}
