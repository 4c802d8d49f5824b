// package services defines the catalog capability and its Spotify implementation
package services

import (
	"context"

	"github.com/desertthunder/moodmix/internal/models"
	"golang.org/x/oauth2"
)

// CatalogClient is the external catalog consumed by the generation pipeline.
type CatalogClient interface {
	// ArtistTopTracks returns the artist's top tracks in the given market.
	ArtistTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error)

	// SearchTracksByGenre returns up to limit tracks tagged with genre.
	SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error)

	// ListenerTopTracks returns up to limit of the authenticated listener's top tracks.
	ListenerTopTracks(ctx context.Context, limit int) ([]models.Track, error)
}

// ArtistSearcher finds artists by name so listeners can pick artist ids.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error)
}

// ProfileService reports the authenticated listener's account.
type ProfileService interface {
	UserProfile(ctx context.Context) (*SpotifyUser, error)
}

// OAuthService is implemented by catalogs that authenticate with the OAuth2 authorization code flow.
type OAuthService interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
