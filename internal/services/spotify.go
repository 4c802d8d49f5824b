// Spotify API implementation of [CatalogClient]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
}

type topTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type trackPage struct {
	Items []SpotifyTrack `json:"items"`
}

type searchTracksResponse struct {
	Tracks trackPage `json:"tracks"`
}

type searchArtistsResponse struct {
	Artists struct {
		Items []SpotifyArtist `json:"items"`
	} `json:"artists"`
}

// ToTrack maps the wire track onto [models.Track]. The cover is the first (largest) album image.
func (t SpotifyTrack) ToTrack() models.Track {
	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    make([]string, 0, len(t.Artists)),
		DurationMs: t.DurationMS,
		Popularity: t.Popularity,
		Album: models.Album{
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
		},
	}

	for _, a := range t.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	if len(t.Album.Images) > 0 {
		track.Album.CoverURL = t.Album.Images[0].URL
	}

	return track
}

func toTracks(items []SpotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		tracks = append(tracks, item.ToTrack())
	}
	return tracks
}

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithBaseURL points the service at another API root, e.g. an httptest server.
func WithBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = baseURL }
}

// WithHTTPClient sets the client used underneath the OAuth2 transport.
func WithHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.baseClient = client }
}

// WithRateLimit paces requests to rps requests per second. Non-positive values disable pacing.
func WithRateLimit(rps float64) SpotifyOption {
	return func(s *SpotifyService) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// SpotifyService implements [CatalogClient] for the Spotify Web API.
// Uses [oauth2] for authentication and a [rate.Limiter] for request pacing.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseClient *http.Client
	baseURL    string
	limiter    *rate.Limiter

	mu             sync.Mutex
	onTokenRefresh func(*oauth2.Token)
}

var (
	_ CatalogClient  = (*SpotifyService)(nil)
	_ ArtistSearcher = (*SpotifyService)(nil)
	_ OAuthService   = (*SpotifyService)(nil)
	_ ProfileService = (*SpotifyService)(nil)
)

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id in credentials", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret in credentials", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"user-top-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	s := &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Authenticate accepts either an "access_token" (optionally with "refresh_token") or an "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(s.clientContext(ctx), authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthRequired, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
}

// OAuthenticate installs token, refreshing it through the token endpoint when it expires.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthRequired)
	}

	s.token = token
	source := &refreshableTokenSource{
		base:     s.config.TokenSource(s.clientContext(ctx), token),
		last:     token.AccessToken,
		callback: s.tokenRefreshCallback,
	}
	s.httpClient = oauth2.NewClient(s.clientContext(ctx), source)
	return nil
}

func (s *SpotifyService) clientContext(ctx context.Context) context.Context {
	if s.baseClient == nil || s.baseClient == http.DefaultClient {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.baseClient)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the OAuth2 client configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to be called whenever the token source yields a new access token.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokenRefresh = fn
}

func (s *SpotifyService) tokenRefreshCallback() func(*oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onTokenRefresh
}

// refreshableTokenSource reports rotated access tokens to a callback.
type refreshableTokenSource struct {
	base     oauth2.TokenSource
	callback func() func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.base.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		if fn := r.callback(); fn != nil {
			fn(token)
		}
	}
	return token, nil
}

// doRequest performs an authenticated GET against the Spotify API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrAuthRequired)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: token refresh failed: %v", shared.ErrAuthRequired, err)
		}
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAuthRequired, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// ArtistTopTracks retrieves an artist's top tracks for a market.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}
	if market == "" {
		market = "ES"
	}

	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", url.PathEscape(artistID), url.QueryEscape(market))

	var response topTracksResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return toTracks(response.Tracks), nil
}

// SearchTracksByGenre searches tracks with the "genre:" field filter.
func (s *SpotifyService) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	if genre == "" {
		return nil, fmt.Errorf("%w: genre", shared.ErrMissingArgument)
	}

	q := url.Values{}
	q.Set("type", "track")
	q.Set("q", "genre:"+genre)
	q.Set("limit", fmt.Sprint(clampLimit(limit, 20)))

	var response searchTracksResponse
	if err := s.doRequest(ctx, "/search?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	return toTracks(response.Tracks.Items), nil
}

// ListenerTopTracks retrieves the current listener's top tracks.
func (s *SpotifyService) ListenerTopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d", clampLimit(limit, 50))

	var response trackPage
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return toTracks(response.Items), nil
}

// SearchArtists finds artists matching query.
func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	q := url.Values{}
	q.Set("type", "artist")
	q.Set("q", query)
	q.Set("limit", fmt.Sprint(clampLimit(limit, 10)))

	var response searchArtistsResponse
	if err := s.doRequest(ctx, "/search?"+q.Encode(), &response); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(response.Artists.Items))
	for _, a := range response.Artists.Items {
		artists = append(artists, models.Artist{ID: a.ID, Name: a.Name})
	}
	return artists, nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
