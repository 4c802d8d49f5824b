package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// FavoriteRepository implements models.Repository[*models.Favorite] for starred tracks.
//
// The track snapshot is stored as a JSON payload so favorites render without a catalog call.
type FavoriteRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Favorite] = (*FavoriteRepository)(nil)

// NewFavoriteRepository creates a new FavoriteRepository with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create inserts a new favorite with generated ID and sequence
func (r *FavoriteRepository) Create(favorite *models.Favorite) error {
	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	payload, err := json.Marshal(favorite.Track())
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO favorites (id, sequence, track_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, favorite.TrackID(), string(payload), favorite.CreatedAt(), favorite.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	favorite.SetID(id)
	favorite.SetSequence(sequence)
	return nil
}

// Get retrieves a favorite by ID
func (r *FavoriteRepository) Get(id string) (*models.Favorite, error) {
	query := `
		SELECT id, sequence, payload, created_at, updated_at
		FROM favorites
		WHERE id = ?
	`

	return r.scan(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the favorite for a catalog track id
func (r *FavoriteRepository) GetByTrackID(trackID string) (*models.Favorite, error) {
	query := `
		SELECT id, sequence, payload, created_at, updated_at
		FROM favorites
		WHERE track_id = ?
	`

	return r.scan(r.db.QueryRow(query, trackID))
}

// Update replaces the stored track snapshot
func (r *FavoriteRepository) Update(favorite *models.Favorite) error {
	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := json.Marshal(favorite.Track())
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(`UPDATE favorites SET track_id = ?, payload = ?, updated_at = ? WHERE id = ?`,
		favorite.TrackID(), string(payload), now, favorite.ID())
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	if err := expectRow(result, "favorite", favorite.ID()); err != nil {
		return err
	}
	favorite.SetUpdatedAt(now)
	return nil
}

// Delete removes a favorite by ID
func (r *FavoriteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return expectRow(result, "favorite", id)
}

// DeleteByTrackID removes the favorite for a catalog track id
func (r *FavoriteRepository) DeleteByTrackID(trackID string) error {
	result, err := r.db.Exec(`DELETE FROM favorites WHERE track_id = ?`, trackID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return expectRow(result, "favorite", trackID)
}

// List retrieves favorites in the order they were starred.
//
// Supported criteria: "limit" (int).
func (r *FavoriteRepository) List(criteria map[string]any) ([]*models.Favorite, error) {
	query := `
		SELECT id, sequence, payload, created_at, updated_at
		FROM favorites
		ORDER BY sequence ASC
	`

	args := []any{}
	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		favorite, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// scanner is satisfied by [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

// scan reads a single favorite row
func (r *FavoriteRepository) scan(row scanner) (*models.Favorite, error) {
	var (
		id        string
		sequence  int
		payload   string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &payload, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: favorite", shared.ErrTrackNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	var track models.Track
	if err := json.Unmarshal([]byte(payload), &track); err != nil {
		return nil, fmt.Errorf("failed to decode favorite track: %w", err)
	}

	favorite := models.NewFavorite(sequence, track)
	favorite.SetID(id)
	favorite.SetCreatedAt(createdAt)
	favorite.SetUpdatedAt(updatedAt)
	return favorite, nil
}

// expectRow returns an error when result affected no rows
func expectRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrTrackNotFound, entity, id)
	}
	return nil
}
