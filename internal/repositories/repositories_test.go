package repositories

import (
	"database/sql"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	tu "github.com/desertthunder/moodmix/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "favorites")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "users"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown table, got %v", err)
	}
}

func TestFavoriteRepository(t *testing.T) {
	track := models.Track{
		ID:         "t1",
		Name:       "So What",
		Artists:    []string{"Miles Davis"},
		Album:      models.Album{Name: "Kind of Blue", ReleaseDate: "1959-08-17", CoverURL: "https://img/1.jpg"},
		DurationMs: 562000,
		Popularity: 71,
	}

	t.Run("Create", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		favorite := models.NewFavorite(0, track)

		if err := repo.Create(favorite); err != nil {
			t.Fatalf("failed to create favorite: %v", err)
		}
		if favorite.ID() == "" {
			t.Error("favorite ID should be set after creation")
		}
		if favorite.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", favorite.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		favorite := models.NewFavorite(0, track)
		if err := repo.Create(favorite); err != nil {
			t.Fatalf("failed to create favorite: %v", err)
		}

		retrieved, err := repo.Get(favorite.ID())
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}

		got := retrieved.Track()
		if got.ID != track.ID || got.Name != track.Name || got.Album.CoverURL != track.Album.CoverURL {
			t.Errorf("expected track %+v, got %+v", track, got)
		}
		if !slices.Equal(got.Artists, track.Artists) || got.DurationMs != track.DurationMs || got.Popularity != track.Popularity {
			t.Errorf("expected track %+v, got %+v", track, got)
		}

		byTrack, err := repo.GetByTrackID("t1")
		if err != nil {
			t.Fatalf("failed to get favorite by track id: %v", err)
		}
		if byTrack.ID() != favorite.ID() {
			t.Errorf("expected ID %s, got %s", favorite.ID(), byTrack.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		favorite := models.NewFavorite(0, track)
		if err := repo.Create(favorite); err != nil {
			t.Fatalf("failed to create favorite: %v", err)
		}

		renamed := track
		renamed.Name = "So What (Remastered)"
		favorite.SetTrack(renamed)

		if err := repo.Update(favorite); err != nil {
			t.Fatalf("failed to update favorite: %v", err)
		}

		retrieved, err := repo.Get(favorite.ID())
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if retrieved.Track().Name != "So What (Remastered)" {
			t.Errorf("expected updated name, got %s", retrieved.Track().Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		favorite := models.NewFavorite(0, track)
		if err := repo.Create(favorite); err != nil {
			t.Fatalf("failed to create favorite: %v", err)
		}

		if err := repo.Delete(favorite.ID()); err != nil {
			t.Fatalf("failed to delete favorite: %v", err)
		}
		if _, err := repo.Get(favorite.ID()); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		for _, tr := range tu.NewTracks("f", 3, "2000", 50) {
			if err := repo.Create(models.NewFavorite(0, tr)); err != nil {
				t.Fatalf("failed to create favorite: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		var ids []string
		for _, f := range all {
			ids = append(ids, f.TrackID())
		}
		if !slices.Equal(ids, []string{"f1", "f2", "f3"}) {
			t.Errorf("expected favorites in starred order, got %v", ids)
		}

		limited, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 favorites, got %d", len(limited))
		}
	})
}

func TestFavoriteRepositoryErrors(t *testing.T) {
	t.Run("ValidationError", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		if err := repo.Create(models.NewFavorite(0, models.Track{})); err == nil {
			t.Fatal("expected validation error for empty track id")
		}
	})

	t.Run("DuplicateTrack", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))
		track := tu.NewTrack("dup", "2000", 50)

		if err := repo.Create(models.NewFavorite(0, track)); err != nil {
			t.Fatalf("failed to create first favorite: %v", err)
		}
		if err := repo.Create(models.NewFavorite(0, track)); err == nil {
			t.Fatal("expected error when starring the same track twice")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
		if err := repo.Delete("nonexistent-id"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
		if err := repo.DeleteByTrackID("nonexistent"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}

		favorite := models.NewFavorite(0, tu.NewTrack("x", "2000", 50))
		favorite.SetID("nonexistent-id")
		if err := repo.Update(favorite); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFavoriteRepository(db)
		db.Close()

		if err := repo.Create(models.NewFavorite(0, tu.NewTrack("x", "2000", 50))); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(nil); err == nil {
			t.Error("expected error on closed database")
		}
	})
}

func TestFavoritesStore(t *testing.T) {
	t.Run("toggle flips membership and writes through", func(t *testing.T) {
		db := setupTestDB(t)
		store, err := LoadFavoritesStore(NewFavoriteRepository(db))
		if err != nil {
			t.Fatalf("failed to load store: %v", err)
		}

		track := tu.NewTrack("t1", "2000", 50)

		on, err := store.Toggle(track)
		if err != nil || !on {
			t.Fatalf("expected track to be favorited, got %v, %v", on, err)
		}
		if !store.IsFavorite("t1") {
			t.Error("expected t1 to be a favorite")
		}

		reloaded, err := LoadFavoritesStore(NewFavoriteRepository(db))
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}
		if !reloaded.IsFavorite("t1") {
			t.Error("expected favorite to persist")
		}

		off, err := store.Toggle(track)
		if err != nil || off {
			t.Fatalf("expected track to be unfavorited, got %v, %v", off, err)
		}
		if store.IsFavorite("t1") || store.Len() != 0 {
			t.Error("expected t1 to be removed")
		}

		reloaded, err = LoadFavoritesStore(NewFavoriteRepository(db))
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}
		if reloaded.IsFavorite("t1") {
			t.Error("expected removal to persist")
		}
	})

	t.Run("list keeps starred order", func(t *testing.T) {
		store, err := LoadFavoritesStore(NewFavoriteRepository(setupTestDB(t)))
		if err != nil {
			t.Fatalf("failed to load store: %v", err)
		}

		tracks := tu.NewTracks("t", 4, "2000", 50)
		for _, tr := range tracks {
			if _, err := store.Toggle(tr); err != nil {
				t.Fatalf("failed to toggle: %v", err)
			}
		}
		store.Toggle(tracks[1])

		if ids := tu.TrackIDs(store.List()); !slices.Equal(ids, []string{"t1", "t3", "t4"}) {
			t.Errorf("expected [t1 t3 t4], got %v", ids)
		}

		got, ok := store.Get("t3")
		if !ok || got.Name != "Track t3" {
			t.Errorf("expected stored snapshot for t3, got %+v", got)
		}
	})

	t.Run("failed write leaves the set unchanged", func(t *testing.T) {
		db := setupTestDB(t)
		store, err := LoadFavoritesStore(NewFavoriteRepository(db))
		if err != nil {
			t.Fatalf("failed to load store: %v", err)
		}
		db.Close()

		if _, err := store.Toggle(tu.NewTrack("t1", "2000", 50)); err == nil {
			t.Fatal("expected error on closed database")
		}
		if store.IsFavorite("t1") {
			t.Error("expected set to be unchanged after failed write")
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("save and load keep order", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		tracks := []models.Track{tu.NewTrack("c", "1970", 10), tu.NewTrack("a", "1980", 20), tu.NewTrack("b", "1990", 30)}

		if err := repo.Save(DefaultSession, tracks); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		loaded, err := repo.Load(DefaultSession)
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if ids := tu.TrackIDs(loaded); !slices.Equal(ids, []string{"c", "a", "b"}) {
			t.Errorf("expected [c a b], got %v", ids)
		}
		if loaded[1].Album.ReleaseDate != "1980" || loaded[1].Popularity != 20 {
			t.Errorf("expected track fields to round trip, got %+v", loaded[1])
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if err := repo.Save(DefaultSession, tu.NewTracks("old", 5, "2000", 50)); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		if err := repo.Save(DefaultSession, tu.NewTracks("new", 2, "2000", 50)); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		loaded, err := repo.Load(DefaultSession)
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if ids := tu.TrackIDs(loaded); !slices.Equal(ids, []string{"new1", "new2"}) {
			t.Errorf("expected [new1 new2], got %v", ids)
		}
	})

	t.Run("duplicate ids are rejected atomically", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if err := repo.Save(DefaultSession, tu.NewTracks("keep", 2, "2000", 50)); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		dup := []models.Track{tu.NewTrack("x", "2000", 50), tu.NewTrack("x", "2000", 50)}
		if err := repo.Save(DefaultSession, dup); err == nil {
			t.Fatal("expected duplicate track ids to fail")
		}

		loaded, err := repo.Load(DefaultSession)
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if ids := tu.TrackIDs(loaded); !slices.Equal(ids, []string{"keep1", "keep2"}) {
			t.Errorf("expected previous session to survive, got %v", ids)
		}
	})

	t.Run("sessions are independent", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		repo.Save("a", tu.NewTracks("a", 1, "2000", 50))
		repo.Save("b", tu.NewTracks("b", 2, "2000", 50))

		if err := repo.Clear("a"); err != nil {
			t.Fatalf("failed to clear session: %v", err)
		}

		a, _ := repo.Load("a")
		b, _ := repo.Load("b")
		if len(a) != 0 || len(b) != 2 {
			t.Errorf("expected a empty and b with 2 tracks, got %d and %d", len(a), len(b))
		}
	})

	t.Run("unknown session is empty", func(t *testing.T) {
		loaded, err := NewSessionRepository(setupTestDB(t)).Load("missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(loaded) != 0 {
			t.Errorf("expected empty session, got %v", loaded)
		}
	})
}
