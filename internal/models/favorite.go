package models

import (
	"fmt"
	"time"
)

// Favorite is a persisted starred track.
type Favorite struct {
	id        string
	sequence  int
	track     Track
	createdAt time.Time
	updatedAt time.Time
}

var _ Model = (*Favorite)(nil)

// NewFavorite creates a Favorite for track with timestamps set to now.
func NewFavorite(sequence int, track Track) *Favorite {
	now := time.Now().UTC()
	return &Favorite{
		sequence:  sequence,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

func (f *Favorite) ID() string           { return f.id }
func (f *Favorite) SetID(id string)      { f.id = id }
func (f *Favorite) Sequence() int        { return f.sequence }
func (f *Favorite) SetSequence(n int)    { f.sequence = n }
func (f *Favorite) Track() Track         { return f.track }
func (f *Favorite) TrackID() string      { return f.track.ID }
func (f *Favorite) CreatedAt() time.Time { return f.createdAt }
func (f *Favorite) UpdatedAt() time.Time { return f.updatedAt }

func (f *Favorite) SetCreatedAt(t time.Time) { f.createdAt = t }
func (f *Favorite) SetUpdatedAt(t time.Time) { f.updatedAt = t }

// SetTrack replaces the stored track snapshot.
func (f *Favorite) SetTrack(t Track) { f.track = t }

// Validate requires a track id.
func (f *Favorite) Validate() error {
	if f.track.ID == "" {
		return fmt.Errorf("favorite track id is required")
	}
	return nil
}
