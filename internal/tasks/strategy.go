package tasks

import (
	"math/rand/v2"

	"github.com/desertthunder/moodmix/internal/models"
)

// StrategyKind tags a [SourceStrategy].
type StrategyKind int

const (
	// ArtistsStrategy fetches each selected artist's top tracks.
	ArtistsStrategy StrategyKind = iota
	// GenresStrategy searches tracks for each selected genre.
	GenresStrategy
	// FallbackTopTracksStrategy fetches the listener's own top tracks.
	FallbackTopTracksStrategy
)

func (k StrategyKind) String() string {
	switch k {
	case ArtistsStrategy:
		return "artists"
	case GenresStrategy:
		return "genres"
	case FallbackTopTracksStrategy:
		return "fallback_top_tracks"
	default:
		return ""
	}
}

// SourceStrategy is the resolved plan for where candidate tracks come from.
// ArtistIDs is set only for [ArtistsStrategy] and Genres only for [GenresStrategy].
type SourceStrategy struct {
	Kind      StrategyKind
	ArtistIDs []string
	Genres    []string
}

// ArtistsSource returns an artists strategy over ids.
func ArtistsSource(ids ...string) SourceStrategy {
	return SourceStrategy{Kind: ArtistsStrategy, ArtistIDs: ids}
}

// GenresSource returns a genres strategy over genres.
func GenresSource(genres ...string) SourceStrategy {
	return SourceStrategy{Kind: GenresStrategy, Genres: genres}
}

// FallbackSource returns the listener top tracks strategy.
func FallbackSource() SourceStrategy {
	return SourceStrategy{Kind: FallbackTopTracksStrategy}
}

// ResolveStrategy picks the generation strategy: artists win over genres, genres over the fallback.
// At most maxGenres genres are searched, in selection order.
func ResolveStrategy(prefs models.Preferences, maxGenres int) SourceStrategy {
	switch {
	case len(prefs.Artists) > 0:
		return ArtistsSource(prefs.ArtistIDs()...)
	case len(prefs.Genres) > 0:
		genres := prefs.Genres
		if maxGenres > 0 && len(genres) > maxGenres {
			genres = genres[:maxGenres]
		}
		return GenresSource(append([]string(nil), genres...)...)
	default:
		return FallbackSource()
	}
}

// AddMoreStrategy picks the extension strategy: one genre chosen with rng when genres are present,
// otherwise the listener's top tracks. Artist selections are not consulted.
func AddMoreStrategy(prefs models.Preferences, rng *rand.Rand) SourceStrategy {
	if len(prefs.Genres) == 0 {
		return FallbackSource()
	}
	return GenresSource(prefs.Genres[rng.IntN(len(prefs.Genres))])
}

// Sources expands the strategy into its ordered source stages.
func (s SourceStrategy) Sources() []Source {
	switch s.Kind {
	case ArtistsStrategy:
		sources := make([]Source, 0, len(s.ArtistIDs))
		for _, id := range s.ArtistIDs {
			sources = append(sources, Source{Kind: ArtistTopTracksSource, Key: id})
		}
		return sources
	case GenresStrategy:
		sources := make([]Source, 0, len(s.Genres))
		for _, g := range s.Genres {
			sources = append(sources, Source{Kind: GenreSearchSource, Key: g})
		}
		return sources
	default:
		return []Source{{Kind: ListenerTopTracksSource}}
	}
}
