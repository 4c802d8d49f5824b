package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/moodmix/internal/shared"
	tu "github.com/desertthunder/moodmix/internal/testing"
)

func newTestAggregator(catalog *tu.MockCatalog, logs *bytes.Buffer) *Aggregator {
	return NewAggregator(catalog, DefaultSourceOptions(), shared.NewLogger(logs))
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches artists sequentially in selection order", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.ArtistTracks["a1"] = tu.NewTracks("x", 2, "2000", 50)
		catalog.ArtistTracks["a2"] = tu.NewTracks("y", 3, "2000", 50)

		got, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, ArtistsSource("a2", "a1"), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if calls := catalog.Calls(); !slices.Equal(calls, []string{"artist:a2", "artist:a1"}) {
			t.Errorf("unexpected call order %v", calls)
		}
		if ids := tu.TrackIDs(got); !slices.Equal(ids, []string{"y1", "y2", "y3", "x1", "x2"}) {
			t.Errorf("expected concatenation in source order, got %v", ids)
		}
	})

	t.Run("failed source contributes nothing and siblings continue", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.GenreTracks["jazz"] = tu.NewTracks("j", 2, "1970", 50)
		catalog.GenreErrs["rock"] = fmt.Errorf("%w: status 500", shared.ErrAPIRequest)
		catalog.GenreTracks["blues"] = tu.NewTracks("b", 1, "1970", 50)

		var logs bytes.Buffer
		got, err := newTestAggregator(catalog, &logs).Aggregate(ctx, GenresSource("jazz", "rock", "blues"), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if ids := tu.TrackIDs(got); !slices.Equal(ids, []string{"j1", "j2", "b1"}) {
			t.Errorf("unexpected tracks %v", ids)
		}
		if len(catalog.Calls()) != 3 {
			t.Errorf("expected all three sources to run, got %v", catalog.Calls())
		}
		if !strings.Contains(logs.String(), "source fetch failed") {
			t.Errorf("expected failure to be logged, got %q", logs.String())
		}
	})

	t.Run("auth failure aborts remaining sources", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.ArtistTracks["a1"] = tu.NewTracks("x", 2, "2000", 50)
		catalog.ArtistErrs["a2"] = fmt.Errorf("%w: status 401", shared.ErrAuthRequired)
		catalog.ArtistTracks["a3"] = tu.NewTracks("z", 2, "2000", 50)

		got, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, ArtistsSource("a1", "a2", "a3"), nil)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no tracks, got %v", got)
		}
		if calls := catalog.Calls(); !slices.Equal(calls, []string{"artist:a1", "artist:a2"}) {
			t.Errorf("expected a3 to be skipped, got %v", calls)
		}
	})

	t.Run("auth failure on fallback propagates", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.TopErr = fmt.Errorf("%w: status 401", shared.ErrAuthRequired)

		_, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, FallbackSource(), nil)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
		if errors.Is(err, shared.ErrGenerationFailed) {
			t.Error("auth failure must not be reported as generation failure")
		}
	})

	t.Run("every source failing is a generation failure", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.GenreErrs["jazz"] = shared.ErrAPIRequest
		catalog.GenreErrs["rock"] = shared.ErrServiceUnavailable

		_, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, GenresSource("jazz", "rock"), nil)
		if !errors.Is(err, shared.ErrGenerationFailed) {
			t.Fatalf("expected ErrGenerationFailed, got %v", err)
		}
		if !errors.Is(err, shared.ErrSourceFetchFailed) {
			t.Errorf("expected source failures to be wrapped, got %v", err)
		}
	})

	t.Run("failed fallback is an empty result", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.TopErr = fmt.Errorf("%w: status 500", shared.ErrAPIRequest)

		var logs bytes.Buffer
		got, err := newTestAggregator(catalog, &logs).Aggregate(ctx, FallbackSource(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no tracks, got %v", got)
		}
		if !strings.Contains(logs.String(), "source fetch failed") {
			t.Errorf("expected failure to be logged, got %q", logs.String())
		}
	})

	t.Run("failed single genre is an empty result", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.GenreErrs["jazz"] = shared.ErrAPIRequest

		got, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, GenresSource("jazz"), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no tracks, got %v", got)
		}
	})

	t.Run("empty sources are not failures", func(t *testing.T) {
		catalog := tu.NewMockCatalog()

		got, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, FallbackSource(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no tracks, got %v", got)
		}
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		cctx, cancel := context.WithCancel(ctx)
		catalog.BeforeCall = func(context.Context, string) { cancel() }

		_, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(cctx, ArtistsSource("a1", "a2", "a3"), nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(catalog.Calls()) != 1 {
			t.Errorf("expected remaining sources to be skipped, got %v", catalog.Calls())
		}
	})

	t.Run("reports progress per source", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.GenreTracks["jazz"] = tu.NewTracks("j", 2, "1970", 50)
		catalog.GenreErrs["rock"] = shared.ErrAPIRequest

		progress := make(chan ProgressUpdate, 10)
		if _, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, GenresSource("jazz", "rock"), progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		var messages []string
		for update := range progress {
			phases = append(phases, update.Phase)
			messages = append(messages, update.Message)
		}

		if !slices.Equal(phases, []Phase{ResolveSources, FetchSource, FetchSource}) {
			t.Errorf("unexpected phases %v", phases)
		}
		if !strings.Contains(messages[1], "✓ genre_search:jazz (2 tracks)") || !strings.Contains(messages[2], "✗ genre_search:rock") {
			t.Errorf("unexpected messages %v", messages)
		}
	})

	t.Run("progress never blocks", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		progress := make(chan ProgressUpdate)

		if _, err := newTestAggregator(catalog, &bytes.Buffer{}).Aggregate(ctx, ArtistsSource("a1", "a2"), progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestRunSources(t *testing.T) {
	t.Run("emits one result per source and closes", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.TopTracks = tu.NewTracks("m", 60, "2000", 50)

		var results []SourceResult
		for r := range RunSources(context.Background(), catalog, FallbackSource().Sources(), SourceOptions{TopTracksLimit: 50}) {
			results = append(results, r)
		}

		if len(results) != 1 {
			t.Fatalf("expected one result, got %d", len(results))
		}
		if len(results[0].Tracks) != 50 {
			t.Errorf("expected top tracks limit to be passed through, got %d", len(results[0].Tracks))
		}
	})

	t.Run("unknown source kind fails", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		results := RunSources(context.Background(), catalog, []Source{{Kind: SourceKind(99)}}, DefaultSourceOptions())

		r := <-results
		if !errors.Is(r.Err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", r.Err)
		}
	})
}
