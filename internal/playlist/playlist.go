// package playlist owns the generated playlist and its state transitions.
//
// [State] is the only writer of the track list. Callers mutate it through
// Generate, Refresh, AddMore and Remove and read it through copies.
//
// Overlapping requests follow last-request-wins: each request takes a fresh token and
// a result whose token is no longer current is dropped with [shared.ErrSuperseded].
// No lock is held while the generator talks to the catalog.
package playlist

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/google/uuid"
)

// Mode is the playlist lifecycle state.
type Mode int

const (
	Empty Mode = iota
	Populated
	Generating
)

func (m Mode) String() string {
	switch m {
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	case Generating:
		return "generating"
	default:
		return ""
	}
}

// State holds the current playlist.
type State struct {
	generator tasks.Generator
	logger    *log.Logger

	mu        sync.Mutex
	tracks    []models.Track
	populated bool
	current   string // token of the newest request
	pending   bool   // newest request has not completed
}

// New creates an empty State backed by generator.
func New(generator tasks.Generator, logger *log.Logger) *State {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &State{generator: generator, logger: logger}
}

// begin issues a new request token, superseding any request in flight.
func (s *State) begin() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = uuid.NewString()
	s.pending = true
	return s.current
}

// finish reports whether token is still current and clears the pending flag if so. Callers hold mu.
func (s *State) finish(token string) bool {
	if token != s.current {
		return false
	}
	s.pending = false
	return true
}

// Generate replaces the playlist with a fresh batch. On error the previous playlist is kept.
func (s *State) Generate(ctx context.Context, prefs models.Preferences, progress chan<- tasks.ProgressUpdate) error {
	token := s.begin()
	tracks, err := s.generator.Generate(ctx, prefs, progress)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(token) {
		s.logger.Debug("discarding superseded generate result", "token", token)
		return shared.ErrSuperseded
	}
	if err != nil {
		return err
	}

	s.tracks = tasks.DedupeTracks(tracks)
	s.populated = true
	s.logger.Debug("playlist generated", "tracks", len(s.tracks))
	return nil
}

// Refresh is Generate with an independent sample.
func (s *State) Refresh(ctx context.Context, prefs models.Preferences, progress chan<- tasks.ProgressUpdate) error {
	return s.Generate(ctx, prefs, progress)
}

// AddMore appends up to the generator's extension size of tracks not already in the playlist
// and returns how many were added.
func (s *State) AddMore(ctx context.Context, prefs models.Preferences, progress chan<- tasks.ProgressUpdate) (int, error) {
	token := s.begin()
	batch, err := s.generator.Extend(ctx, prefs, s.Contains, progress)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(token) {
		s.logger.Debug("discarding superseded add more result", "token", token)
		return 0, shared.ErrSuperseded
	}
	if err != nil {
		return 0, err
	}

	present := make(map[string]struct{}, len(s.tracks))
	for _, t := range s.tracks {
		present[t.ID] = struct{}{}
	}

	added := 0
	for _, t := range batch {
		if _, ok := present[t.ID]; ok {
			continue
		}
		present[t.ID] = struct{}{}
		s.tracks = append(s.tracks, t)
		added++
	}

	if added > 0 {
		s.populated = true
	}
	s.logger.Debug("playlist extended", "added", added, "tracks", len(s.tracks))
	return added, nil
}

// Remove deletes the track with id and reports whether it was present. The mode does not change.
func (s *State) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tracks, func(t models.Track) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	s.tracks = slices.Delete(s.tracks, i, i+1)
	return true
}

// Restore seeds the playlist from a saved session, dropping repeated ids.
func (s *State) Restore(tracks []models.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = tasks.DedupeTracks(tracks)
	s.populated = len(s.tracks) > 0
}

// Tracks returns a copy of the playlist.
func (s *State) Tracks() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tracks)
}

// Len returns the number of tracks.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracks)
}

// Contains reports whether a track with id is in the playlist.
func (s *State) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.tracks, func(t models.Track) bool { return t.ID == id })
}

// Mode returns Generating while the newest request is in flight, otherwise Populated or Empty.
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.pending:
		return Generating
	case s.populated:
		return Populated
	default:
		return Empty
	}
}
