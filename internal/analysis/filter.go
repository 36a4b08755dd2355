package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

// Filter selects rows after classification and derivation. The zero Filter
// keeps everything. Filters never touch the underlying tables.
type Filter struct {
	// Genres keeps only these broad genres when non-empty.
	Genres []genre.BroadGenre
	// ExcludeShort drops rows derived as short plays.
	ExcludeShort bool
	// Start and End bound the event end time, [Start, End). Zero means unbounded.
	Start, End time.Time
}

func (f Filter) keep(r DerivedRow) bool {
	if f.ExcludeShort && r.ShortPlay {
		return false
	}
	if !f.Start.IsZero() && r.Event.EndTime.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && !r.Event.EndTime.Before(f.End) {
		return false
	}
	return f.KeepsGenre(r.Artist.BroadGenre)
}

// KeepsGenre reports whether g passes the genre selection.
func (f Filter) KeepsGenre(g genre.BroadGenre) bool {
	if len(f.Genres) == 0 {
		return true
	}
	for _, want := range f.Genres {
		if g == want {
			return true
		}
	}
	return false
}

// Catalog narrows the artist and track tables to the selected genres. A
// track whose artist is unknown counts as No Genre. Dates and short plays
// don't apply to catalog entries.
func (f Filter) Catalog(artists []Artist, tracks []dataset.TrackFeatures) ([]Artist, []dataset.TrackFeatures) {
	if len(f.Genres) == 0 {
		return artists, tracks
	}
	keptArtists := make([]Artist, 0, len(artists))
	for _, a := range artists {
		if f.KeepsGenre(a.BroadGenre) {
			keptArtists = append(keptArtists, a)
		}
	}
	genres := genreByArtist(artists)
	keptTracks := make([]dataset.TrackFeatures, 0, len(tracks))
	for _, t := range tracks {
		g, ok := genres[t.ArtistName]
		if !ok {
			g = genre.NoGenre
		}
		if f.KeepsGenre(g) {
			keptTracks = append(keptTracks, t)
		}
	}
	return keptArtists, keptTracks
}

// Apply returns the rows the filter keeps, in order.
func (f Filter) Apply(rows []DerivedRow) []DerivedRow {
	out := make([]DerivedRow, 0, len(rows))
	for _, r := range rows {
		if f.keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Range is a closed interval used by brushes.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g:%g", r.Min, r.Max)
}

// ParseRange reads "min:max". An empty side falls back to the audio
// feature bound, 0 or 1.
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return Range{}, fmt.Errorf("range %q: expected min:max", s)
	}
	r := Range{Min: 0, Max: 1}
	var err error
	if lo = strings.TrimSpace(lo); lo != "" {
		if r.Min, err = strconv.ParseFloat(lo, 64); err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if r.Max, err = strconv.ParseFloat(hi, 64); err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
	}
	if r.Min > r.Max {
		return Range{}, fmt.Errorf("range %q: min is greater than max", s)
	}
	return r, nil
}

// Brush is a rectangular selection over two audio features of a scatter
// plot. A nil range selects the whole axis.
type Brush struct {
	X, Y           string
	XRange, YRange *Range
}

// Selects reports whether the track falls inside the brush.
func (b Brush) Selects(x, y float64) bool {
	if b.XRange != nil && !b.XRange.Contains(x) {
		return false
	}
	if b.YRange != nil && !b.YRange.Contains(y) {
		return false
	}
	return true
}

// Active reports whether the brush restricts anything.
func (b Brush) Active() bool {
	return b.XRange != nil || b.YRange != nil
}
