package testsupport

import (
	"context"
	"testing"

	"songscan/internal/catalog"
	"songscan/internal/config"
	"songscan/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedSong inserts a catalog song for tests using the provided store.
func SeedSong(t testing.TB, st *store.Store, id, title, artist string) catalog.Song {
	t.Helper()

	song := catalog.Song{
		ID:             id,
		Title:          title,
		OriginalArtist: artist,
	}
	if err := st.AddSong(context.Background(), song); err != nil {
		t.Fatalf("store.AddSong: %v", err)
	}
	return song
}
