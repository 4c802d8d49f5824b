package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/moodmix/internal/shared"
)

// sequenceTables maps entity tables to their counter tables.
var sequenceTables = map[string]string{
	"favorites": "favorites_sequence",
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give favorites a stable "starred order" independent of UUIDs and timestamps.
func NextSequence(db *sql.DB, table string) (int, error) {
	sequenceTable, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}
