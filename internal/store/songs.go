package store

import (
	"context"
	"encoding/json"
	"fmt"

	"songscan/internal/catalog"
)

// AddSong inserts or replaces a catalog entry. The song is normalized first so
// stored rows always carry canonical language tags.
func (s *Store) AddSong(ctx context.Context, song catalog.Song) error {
	if err := song.Normalize(); err != nil {
		return fmt.Errorf("add song: %w", err)
	}
	metadata := "{}"
	if len(song.Metadata) > 0 {
		encoded, err := json.Marshal(song.Metadata)
		if err != nil {
			return fmt.Errorf("add song %s: encode metadata: %w", song.ID, err)
		}
		metadata = string(encoded)
	}
	_, err := s.execWithRetry(ctx, `
		INSERT INTO songs (id, title, original_artist, lyrics_text, language, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			original_artist = excluded.original_artist,
			lyrics_text = excluded.lyrics_text,
			language = excluded.language,
			metadata_json = excluded.metadata_json`,
		song.ID, song.Title, song.OriginalArtist, song.LyricsText, song.Language, metadata, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("add song %s: %w", song.ID, err)
	}
	return nil
}

// ListSongs loads the full match-target catalog ordered by title.
func (s *Store) ListSongs(ctx context.Context) ([]catalog.Song, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT id, title, original_artist, lyrics_text, language, metadata_json
		FROM songs ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		var (
			song     catalog.Song
			metadata string
		)
		if err := rows.Scan(&song.ID, &song.Title, &song.OriginalArtist, &song.LyricsText, &song.Language, &metadata); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &song.Metadata); err != nil {
				return nil, fmt.Errorf("song %s: decode metadata: %w", song.ID, err)
			}
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
