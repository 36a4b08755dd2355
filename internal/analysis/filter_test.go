package analysis

import (
	"testing"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

func trackNames(rows []DerivedRow) []string {
	var names []string
	for _, r := range rows {
		names = append(names, r.Event.TrackName)
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterApply(t *testing.T) {
	f := loadFixture(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero", Filter{}, []string{"Feel It All Around", "Latch", "Omen", "Holocene"}},
		{"genre", Filter{Genres: []genre.BroadGenre{genre.Electronica}}, []string{"Latch", "Omen"}},
		{"genres", Filter{Genres: []genre.BroadGenre{genre.Indie, genre.TieGenre}}, []string{"Feel It All Around", "Holocene"}},
		{"exclude short", Filter{ExcludeShort: true}, []string{"Latch", "Holocene"}},
		{"start", Filter{Start: time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)}, []string{"Holocene"}},
		{"end exclusive", Filter{End: time.Date(2020, 3, 2, 21, 40, 0, 0, time.UTC)}, []string{"Feel It All Around"}},
		{"combined", Filter{Genres: []genre.BroadGenre{genre.Electronica}, ExcludeShort: true}, []string{"Latch"}},
		{"no match", Filter{Genres: []genre.BroadGenre{genre.Jazz}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trackNames(tt.filter.Apply(f.rows))
			if !equalNames(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}

	if len(f.rows) != 4 {
		t.Errorf("Apply must not modify its input, got %d rows", len(f.rows))
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{"0.2:0.8", Range{0.2, 0.8}, false},
		{":0.5", Range{0, 0.5}, false},
		{"0.5:", Range{0.5, 1}, false},
		{" 0.1 : 0.3 ", Range{0.1, 0.3}, false},
		{"0.8:0.2", Range{}, true},
		{"0.5", Range{}, true},
		{"a:b", Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBrush(t *testing.T) {
	var b Brush
	if b.Active() || !b.Selects(0.1, 0.9) {
		t.Error("an empty brush selects everything and is inactive")
	}

	b = Brush{XRange: &Range{0.5, 1}, YRange: &Range{0, 0.5}}
	if !b.Active() {
		t.Error("expected brush to be active")
	}
	if !b.Selects(0.5, 0.5) {
		t.Error("range bounds are inclusive")
	}
	if b.Selects(0.4, 0.1) || b.Selects(0.6, 0.6) {
		t.Error("points outside the brush must not be selected")
	}
}

func TestFilterCatalog(t *testing.T) {
	f := loadFixture(t)
	tracks := append(append([]dataset.TrackFeatures(nil), f.tables.Tracks...), dataset.TrackFeatures{TrackName: "Stray", ArtistName: "Nobody"})

	artists, kept := Filter{}.Catalog(f.artists, tracks)
	if len(artists) != 5 || len(kept) != 6 {
		t.Errorf("zero filter kept %d artists and %d tracks, want 5 and 6", len(artists), len(kept))
	}

	artists, kept = Filter{Genres: []genre.BroadGenre{genre.Electronica}}.Catalog(f.artists, tracks)
	if len(artists) != 1 || artists[0].Name != "Disclosure" {
		t.Errorf("Electronica artists = %v, want only Disclosure", artists)
	}
	var names []string
	for _, tr := range kept {
		names = append(names, tr.TrackName)
	}
	if !equalNames(names, []string{"Latch", "Omen"}) {
		t.Errorf("Electronica tracks = %v, want [Latch Omen]", names)
	}

	artists, kept = Filter{Genres: []genre.BroadGenre{genre.NoGenre}}.Catalog(f.artists, tracks)
	names = nil
	for _, tr := range kept {
		names = append(names, tr.TrackName)
	}
	if len(artists) != 2 || !equalNames(names, []string{"Static", "Stray"}) {
		t.Errorf("No Genre kept %d artists and tracks %v, want 2 and [Static Stray]", len(artists), names)
	}
}
