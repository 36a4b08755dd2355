package analysis

import (
	"testing"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

func TestClassifyArtists(t *testing.T) {
	f := loadFixture(t)

	want := map[string]genre.BroadGenre{
		"Washed Out":     genre.TieGenre,
		"Disclosure":     genre.Electronica,
		"Bon Iver":       genre.Indie,
		"Broken Band":    genre.NoGenre,
		"Unknown Artist": genre.NoGenre,
	}
	if len(f.artists) != len(want) {
		t.Fatalf("expected %d artists, got %d", len(want), len(f.artists))
	}
	for _, a := range f.artists {
		if a.BroadGenre != want[a.Name] {
			t.Errorf("%s: expected %s, got %s", a.Name, want[a.Name], a.BroadGenre)
		}
	}
	if f.artists[0].Name != "Washed Out" {
		t.Errorf("expected table order to be kept, got %s first", f.artists[0].Name)
	}
}

func TestJoin(t *testing.T) {
	f := loadFixture(t)

	if len(f.joined) != 5 {
		t.Fatalf("expected 5 joined rows, got %d", len(f.joined))
	}
	want := JoinStats{Events: 6, Joined: 5, MissingTrack: 1, MissingArtist: 0}
	if f.stats != want {
		t.Errorf("expected stats %+v, got %+v", want, f.stats)
	}

	order := []string{"Feel It All Around", "Latch", "Omen", "Holocene", "Static"}
	for i, r := range f.joined {
		if r.Event.TrackName != order[i] {
			t.Errorf("row %d: expected %s, got %s", i, order[i], r.Event.TrackName)
		}
		if r.Track.TrackName != r.Event.TrackName || r.Artist.Name != r.Event.ArtistName {
			t.Errorf("row %d joined the wrong records: %+v", i, r)
		}
	}
}

func TestJoinMissingArtist(t *testing.T) {
	events := []dataset.StreamingEvent{
		{EndTime: time.Unix(0, 0), ArtistName: "A", TrackName: "T", MsPlayed: 1000},
	}
	tracks := []dataset.TrackFeatures{{TrackName: "T", ArtistName: "A", DurationMs: 2000}}

	rows, stats := Join(events, tracks, nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
	if stats.MissingArtist != 1 {
		t.Errorf("expected 1 missing artist, got %d", stats.MissingArtist)
	}
}

func TestJoinDuplicateKeys(t *testing.T) {
	events := []dataset.StreamingEvent{
		{ArtistName: "A", TrackName: "T", MsPlayed: 1000},
	}
	tracks := []dataset.TrackFeatures{
		{TrackName: "T", ArtistName: "A", DurationMs: 2000},
		{TrackName: "T", ArtistName: "A", DurationMs: 3000},
	}
	artists := []Artist{{Artist: dataset.Artist{Name: "A"}, BroadGenre: genre.Rock}}

	rows, stats := Join(events, tracks, artists)
	// Duplicate track keys repeat the event rather than being collapsed.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Track.DurationMs != 2000 || rows[1].Track.DurationMs != 3000 {
		t.Errorf("unexpected duplicate order: %+v", rows)
	}
	if stats.Joined != 2 {
		t.Errorf("expected Joined 2, got %d", stats.Joined)
	}
}

func TestJoinKeyIncludesArtist(t *testing.T) {
	events := []dataset.StreamingEvent{{ArtistName: "B", TrackName: "Intro"}}
	tracks := []dataset.TrackFeatures{{TrackName: "Intro", ArtistName: "A", DurationMs: 1000}}
	artists := []Artist{{Artist: dataset.Artist{Name: "B"}}}

	rows, stats := Join(events, tracks, artists)
	if len(rows) != 0 || stats.MissingTrack != 1 {
		t.Errorf("same track name by another artist must not join: %d rows, %+v", len(rows), stats)
	}
}
