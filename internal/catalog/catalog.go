package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Song is one known match target supplied to the analyzer.
type Song struct {
	ID             string
	Title          string
	OriginalArtist string
	LyricsText     string
	Language       string
	Metadata       map[string]string
}

// Normalize trims identifying fields and canonicalizes the language tag.
// An empty language is allowed; an unparseable one is an error so bad catalog
// rows are caught at insert time rather than at match time.
func (s *Song) Normalize() error {
	s.ID = strings.TrimSpace(s.ID)
	s.Title = strings.TrimSpace(s.Title)
	s.OriginalArtist = strings.TrimSpace(s.OriginalArtist)
	if s.ID == "" {
		return fmt.Errorf("song id must not be empty")
	}
	if s.Title == "" {
		return fmt.Errorf("song %s: title must not be empty", s.ID)
	}
	tag, err := NormalizeLanguage(s.Language)
	if err != nil {
		return fmt.Errorf("song %s: %w", s.ID, err)
	}
	s.Language = tag
	return nil
}

// NormalizeLanguage canonicalizes a BCP 47 language tag ("KO", "en_us").
// Empty input stays empty.
func NormalizeLanguage(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("language tag %q: %w", value, err)
	}
	return tag.String(), nil
}

// FindByID returns the song with the given id, if present.
func FindByID(songs []Song, id string) (Song, bool) {
	for _, song := range songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}
