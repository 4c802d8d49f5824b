// Package repositories implements SQLite persistence for favorites and the saved session playlist.
//
// Key Implementations:
//   - [FavoriteRepository] : models.Repository for starred tracks, keyed by catalog track id
//   - [FavoritesStore] : in-memory favorite set loaded once and written through on every toggle
//   - [SessionRepository] : ordered playlist snapshot shared across CLI invocations
//
// Track snapshots are stored as JSON payloads so favorites and sessions render offline.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
