package analyzer_test

import (
	"context"
	"reflect"
	"testing"

	"songscan/internal/analyzer"
)

func TestFixedAnalyzeDeterministic(t *testing.T) {
	fixed := analyzer.NewFixed("song1")

	first, err := fixed.Analyze(context.Background(), "a.wav", testSongs())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := fixed.Analyze(context.Background(), "b.wav", testSongs())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fixed analyzer output varies: %+v vs %+v", first, second)
	}
	if len(first) != 2 {
		t.Fatalf("expected two segments, got %d", len(first))
	}
	for _, segment := range first {
		if segment.SongID != "song1" {
			t.Fatalf("segment references %q, want song1", segment.SongID)
		}
		if err := segment.Validate(); err != nil {
			t.Fatalf("invalid fixed segment: %v", err)
		}
	}
}

func TestFixedAnalyzeFallsBackToFirstSong(t *testing.T) {
	fixed := analyzer.NewFixed("")
	segments, err := fixed.Analyze(context.Background(), "a.wav", testSongs())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, segment := range segments {
		if segment.SongID != "song1" {
			t.Fatalf("expected first catalog entry song1, got %q", segment.SongID)
		}
	}
}

func TestFixedAnalyzeUnknownFallbackUsesFirstSong(t *testing.T) {
	fixed := analyzer.NewFixed("missing")
	segments, err := fixed.Analyze(context.Background(), "a.wav", testSongs())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(segments) == 0 || segments[0].SongID != "song1" {
		t.Fatalf("unexpected segments: %+v", segments)
	}
}

func TestFixedAnalyzeEmptyCatalog(t *testing.T) {
	fixed := analyzer.NewFixed("song1")
	segments, err := fixed.Analyze(context.Background(), "a.wav", nil)
	if err != nil {
		t.Fatalf("empty catalog must not error: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected empty result, got %+v", segments)
	}
}
