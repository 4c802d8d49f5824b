// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
)

// MockCatalog is a test double for [services.CatalogClient].
//
// Responses are keyed by artist id and genre. Keys without a response return an empty result.
// Every call is recorded as "artist:<id>", "genre:<name>" or "top".
type MockCatalog struct {
	ArtistTracks map[string][]models.Track
	GenreTracks  map[string][]models.Track
	TopTracks    []models.Track

	ArtistErrs map[string]error
	GenreErrs  map[string]error
	TopErr     error

	// BeforeCall, when set, runs before each call returns and may block to simulate latency.
	BeforeCall func(ctx context.Context, call string)

	mu    sync.Mutex
	calls []string
}

// NewMockCatalog returns an empty [MockCatalog].
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		ArtistTracks: map[string][]models.Track{},
		GenreTracks:  map[string][]models.Track{},
		ArtistErrs:   map[string]error{},
		GenreErrs:    map[string]error{},
	}
}

func (m *MockCatalog) record(ctx context.Context, call string) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	hook := m.BeforeCall
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, call)
	}
	return ctx.Err()
}

// Calls returns a copy of the recorded call log.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset clears the call log.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockCatalog) ArtistTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	if err := m.record(ctx, "artist:"+artistID); err != nil {
		return nil, err
	}
	if err := m.ArtistErrs[artistID]; err != nil {
		return nil, err
	}
	return append([]models.Track(nil), m.ArtistTracks[artistID]...), nil
}

func (m *MockCatalog) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	if err := m.record(ctx, "genre:"+genre); err != nil {
		return nil, err
	}
	if err := m.GenreErrs[genre]; err != nil {
		return nil, err
	}
	tracks := m.GenreTracks[genre]
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return append([]models.Track(nil), tracks...), nil
}

func (m *MockCatalog) ListenerTopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	if err := m.record(ctx, "top"); err != nil {
		return nil, err
	}
	if m.TopErr != nil {
		return nil, m.TopErr
	}
	tracks := m.TopTracks
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return append([]models.Track(nil), tracks...), nil
}

// NewTrack builds a track with the given id, release date and popularity.
func NewTrack(id, releaseDate string, popularity int) models.Track {
	return models.Track{
		ID:         id,
		Name:       "Track " + id,
		Artists:    []string{"Artist " + id},
		Album:      models.Album{Name: "Album " + id, ReleaseDate: releaseDate},
		DurationMs: 180000,
		Popularity: popularity,
	}
}

// NewTracks builds n tracks with ids "<prefix>1".."<prefix>n".
func NewTracks(prefix string, n int, releaseDate string, popularity int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 1; i <= n; i++ {
		tracks = append(tracks, NewTrack(fmt.Sprintf("%s%d", prefix, i), releaseDate, popularity))
	}
	return tracks
}

// TrackIDs returns the ids of tracks in order.
func TrackIDs(tracks []models.Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
