package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// SourceKind identifies the catalog query behind a [Source].
type SourceKind int

const (
	ArtistTopTracksSource SourceKind = iota
	GenreSearchSource
	ListenerTopTracksSource
)

func (k SourceKind) String() string {
	switch k {
	case ArtistTopTracksSource:
		return "artist_top_tracks"
	case GenreSearchSource:
		return "genre_search"
	case ListenerTopTracksSource:
		return "listener_top_tracks"
	default:
		return ""
	}
}

// Source is one catalog fetch. Key is the artist id or genre; it is empty for listener top tracks.
type Source struct {
	Kind SourceKind
	Key  string
}

func (s Source) String() string {
	if s.Key == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Key
}

// SourceOptions carries the per-query parameters sent to the catalog.
type SourceOptions struct {
	Market         string
	GenreLimit     int
	TopTracksLimit int
}

// DefaultSourceOptions returns market ES, 20 tracks per genre and 50 listener top tracks.
func DefaultSourceOptions() SourceOptions {
	return SourceOptions{Market: "ES", GenreLimit: 20, TopTracksLimit: 50}
}

// SourceResult is the outcome of one [Source] stage.
type SourceResult struct {
	Source  Source
	Tracks  []models.Track
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the stage produced an error.
func (r SourceResult) Failed() bool { return r.Err != nil }

// fetch runs a single source against the catalog.
func fetch(ctx context.Context, catalog services.CatalogClient, src Source, opts SourceOptions) ([]models.Track, error) {
	switch src.Kind {
	case ArtistTopTracksSource:
		return catalog.ArtistTopTracks(ctx, src.Key, opts.Market)
	case GenreSearchSource:
		return catalog.SearchTracksByGenre(ctx, src.Key, opts.GenreLimit)
	case ListenerTopTracksSource:
		return catalog.ListenerTopTracks(ctx, opts.TopTracksLimit)
	default:
		return nil, fmt.Errorf("%w: source kind %d", shared.ErrInvalidArgument, src.Kind)
	}
}

// RunSources fetches sources one at a time on a separate goroutine and emits each result in order.
//
// The returned channel is closed when every source has run, when a stage fails with
// [shared.ErrAuthRequired] (that result is still emitted), or when ctx is done.
// The channel is buffered for every stage so an abandoned reader never blocks the producer.
func RunSources(ctx context.Context, catalog services.CatalogClient, sources []Source, opts SourceOptions) <-chan SourceResult {
	results := make(chan SourceResult, len(sources))

	go func() {
		defer close(results)

		for _, src := range sources {
			if ctx.Err() != nil {
				return
			}

			start := time.Now()
			tracks, err := fetch(ctx, catalog, src, opts)
			results <- SourceResult{Source: src, Tracks: tracks, Err: err, Elapsed: time.Since(start)}

			if errors.Is(err, shared.ErrAuthRequired) {
				return
			}
		}
	}()

	return results
}
