package repositories

import (
	"fmt"
	"sync"

	"github.com/desertthunder/moodmix/internal/models"
)

// FavoritesStore is the listener's favorite set backed by a [FavoriteRepository].
//
// The set is read once by [LoadFavoritesStore]; every toggle then writes through to the database
// before the in-memory set changes, so a failed write leaves both unchanged.
type FavoritesStore struct {
	repo *FavoriteRepository

	mu     sync.RWMutex
	order  []string
	tracks map[string]models.Track
}

// LoadFavoritesStore reads all favorites from repo.
func LoadFavoritesStore(repo *FavoriteRepository) (*FavoritesStore, error) {
	favorites, err := repo.List(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	s := &FavoritesStore{repo: repo, tracks: make(map[string]models.Track, len(favorites))}
	for _, f := range favorites {
		s.order = append(s.order, f.TrackID())
		s.tracks[f.TrackID()] = f.Track()
	}
	return s, nil
}

// Toggle adds track when absent and removes it when present. It reports whether track is now a favorite.
func (s *FavoritesStore) Toggle(track models.Track) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[track.ID]; ok {
		if err := s.repo.DeleteByTrackID(track.ID); err != nil {
			return true, fmt.Errorf("failed to remove favorite: %w", err)
		}

		delete(s.tracks, track.ID)
		for i, id := range s.order {
			if id == track.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	if err := s.repo.Create(models.NewFavorite(0, track)); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.tracks[track.ID] = track
	s.order = append(s.order, track.ID)
	return true, nil
}

// IsFavorite reports whether id is a favorite.
func (s *FavoritesStore) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tracks[id]
	return ok
}

// Get returns the stored snapshot of a favorite track.
func (s *FavoritesStore) Get(id string) (models.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tracks[id]
	return t, ok
}

// List returns favorites in the order they were added.
func (s *FavoritesStore) List() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]models.Track, 0, len(s.order))
	for _, id := range s.order {
		tracks = append(tracks, s.tracks[id])
	}
	return tracks
}

// Len returns the number of favorites.
func (s *FavoritesStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
