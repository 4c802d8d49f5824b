package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
)

// DefaultSession names the playlist shared by CLI invocations.
const DefaultSession = "default"

// SessionRepository stores the current playlist so separate CLI invocations can extend and edit it.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save replaces the stored tracks for session in a single transaction.
func (r *SessionRepository) Save(session string, tracks []models.Track) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_tracks WHERE session = ?`, session); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO session_tracks (session, position, track_id, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, track := range tracks {
		payload, err := json.Marshal(track)
		if err != nil {
			return fmt.Errorf("failed to encode track %s: %w", track.ID, err)
		}
		if _, err := stmt.Exec(session, i, track.ID, string(payload), now); err != nil {
			return fmt.Errorf("failed to insert session track %s: %w", track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Load returns the stored tracks for session in playlist order. An unknown session is empty.
func (r *SessionRepository) Load(session string) ([]models.Track, error) {
	rows, err := r.db.Query(`SELECT payload FROM session_tracks WHERE session = ? ORDER BY position ASC`, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan session track: %w", err)
		}

		var track models.Track
		if err := json.Unmarshal([]byte(payload), &track); err != nil {
			return nil, fmt.Errorf("failed to decode session track: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// Clear deletes the stored tracks for session.
func (r *SessionRepository) Clear(session string) error {
	if _, err := r.db.Exec(`DELETE FROM session_tracks WHERE session = ?`, session); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
