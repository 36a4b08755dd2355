package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

// Weekdays is Monday-first display order.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type WeekdayTotal struct {
	Weekday time.Weekday `yaml:"-"`
	Day     string       `yaml:"weekday"`
	Plays   int          `yaml:"plays"`
	Minutes float64      `yaml:"minutes"`
}

// WeekdayTotals sums plays and minutes per weekday, Monday first. It counts
// joined rows, so genre and short play filters apply and events without
// track features are left out.
func WeekdayTotals(rows []DerivedRow) []WeekdayTotal {
	var totals [7]WeekdayTotal
	for _, r := range rows {
		totals[r.Weekday].Plays++
		totals[r.Weekday].Minutes += r.MinutesPlayed
	}
	out := make([]WeekdayTotal, 0, 7)
	for _, d := range Weekdays {
		t := totals[d]
		t.Weekday = d
		t.Day = d.String()
		out = append(out, t)
	}
	return out
}

// Heatmap counts plays per weekday and hour of day, indexed by time.Weekday.
type Heatmap [7][24]int

func HourWeekdayHeatmap(rows []DerivedRow) Heatmap {
	var h Heatmap
	for _, r := range rows {
		h[r.Weekday][r.Hour]++
	}
	return h
}

// PlayBin is one bucket of the percent-played histogram.
type PlayBin struct {
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Short int     `yaml:"short"`
	Full  int     `yaml:"full"`
}

// PercentPlayedHistogram buckets rows by percent played into bins of the
// given width over [0, MaxPercentPlayed], split by short play. The last bin
// is closed on the right.
func PercentPlayedHistogram(rows []DerivedRow, width float64) ([]PlayBin, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bin width must be positive, got %v", width)
	}
	n := int(math.Ceil(MaxPercentPlayed / width))
	bins := make([]PlayBin, n)
	for i := range bins {
		bins[i].Low = float64(i) * width
		bins[i].High = math.Min(float64(i+1)*width, MaxPercentPlayed)
	}
	for _, r := range rows {
		i := int(r.PercentPlayed / width)
		if i >= n {
			i = n - 1
		}
		if r.ShortPlay {
			bins[i].Short++
		} else {
			bins[i].Full++
		}
	}
	return bins, nil
}

// StreamPoint is one month of the genre streamgraph.
type StreamPoint struct {
	Month   string                       `yaml:"month"`
	Minutes map[genre.BroadGenre]float64 `yaml:"minutes"`
}

// Streamgraph sums minutes played per calendar month and broad genre, in
// month order.
func Streamgraph(rows []DerivedRow) []StreamPoint {
	byMonth := make(map[string]map[genre.BroadGenre]float64)
	for _, r := range rows {
		month := r.Event.EndTime.Format("2006-01")
		if byMonth[month] == nil {
			byMonth[month] = make(map[genre.BroadGenre]float64)
		}
		byMonth[month][r.Artist.BroadGenre] += r.MinutesPlayed
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]StreamPoint, 0, len(months))
	for _, m := range months {
		out = append(out, StreamPoint{Month: m, Minutes: byMonth[m]})
	}
	return out
}

// Distribution summarizes one audio feature for one broad genre.
type Distribution struct {
	Genre  genre.BroadGenre `yaml:"genre"`
	Count  int              `yaml:"count"`
	Min    float64          `yaml:"min"`
	Q1     float64          `yaml:"q1"`
	Median float64          `yaml:"median"`
	Q3     float64          `yaml:"q3"`
	Max    float64          `yaml:"max"`
	Mean   float64          `yaml:"mean"`
}

// FeatureDistribution summarizes the feature over every play, per broad
// genre, in genre order. Genres with no plays are omitted.
func FeatureDistribution(rows []DerivedRow, feature string) ([]Distribution, error) {
	values := make(map[genre.BroadGenre][]float64)
	for _, r := range rows {
		v, err := r.Track.Feature(feature)
		if err != nil {
			return nil, err
		}
		values[r.Artist.BroadGenre] = append(values[r.Artist.BroadGenre], v)
	}

	var out []Distribution
	for _, g := range genre.All() {
		vs := values[g]
		if len(vs) == 0 {
			continue
		}
		sort.Float64s(vs)
		var sum float64
		for _, v := range vs {
			sum += v
		}
		out = append(out, Distribution{
			Genre:  g,
			Count:  len(vs),
			Min:    vs[0],
			Q1:     quantile(vs, 0.25),
			Median: quantile(vs, 0.5),
			Q3:     quantile(vs, 0.75),
			Max:    vs[len(vs)-1],
			Mean:   sum / float64(len(vs)),
		})
	}
	return out, nil
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ScatterPoint is one track on the feature scatter plot.
type ScatterPoint struct {
	Track    string           `yaml:"track"`
	Artist   string           `yaml:"artist"`
	X        float64          `yaml:"x"`
	Y        float64          `yaml:"y"`
	NListens int64            `yaml:"n_listens"`
	Genre    genre.BroadGenre `yaml:"genre"`
	Selected bool             `yaml:"selected"`
}

// Scatter plots every track on the brush's two features and marks the
// tracks inside the brush. Tracks whose artist isn't in artists get No Genre.
func Scatter(tracks []dataset.TrackFeatures, artists []Artist, brush Brush) ([]ScatterPoint, error) {
	genres := genreByArtist(artists)
	out := make([]ScatterPoint, 0, len(tracks))
	for _, t := range tracks {
		x, err := t.Feature(brush.X)
		if err != nil {
			return nil, err
		}
		y, err := t.Feature(brush.Y)
		if err != nil {
			return nil, err
		}
		g, ok := genres[t.ArtistName]
		if !ok {
			g = genre.NoGenre
		}
		out = append(out, ScatterPoint{
			Track:    t.TrackName,
			Artist:   t.ArtistName,
			X:        x,
			Y:        y,
			NListens: t.NListens,
			Genre:    g,
			Selected: brush.Selects(x, y),
		})
	}
	return out, nil
}

// GenreShare is one slice of a genre breakdown.
type GenreShare struct {
	Genre    genre.BroadGenre `yaml:"genre"`
	Tracks   int              `yaml:"tracks"`
	Listens  int64            `yaml:"listens"`
	Fraction float64          `yaml:"fraction"`
}

// SelectionMix is the linked view of a brush: the genre breakdown of the
// selected scatter points, weighted by listens.
func SelectionMix(points []ScatterPoint) []GenreShare {
	tracks := make(map[genre.BroadGenre]int)
	listens := make(map[genre.BroadGenre]int64)
	var total int64
	for _, p := range points {
		if !p.Selected {
			continue
		}
		tracks[p.Genre]++
		listens[p.Genre] += p.NListens
		total += p.NListens
	}

	var out []GenreShare
	for _, g := range genre.All() {
		if tracks[g] == 0 {
			continue
		}
		s := GenreShare{Genre: g, Tracks: tracks[g], Listens: listens[g]}
		if total > 0 {
			s.Fraction = float64(listens[g]) / float64(total)
		}
		out = append(out, s)
	}
	return out
}

// PopularityPoint compares a track's popularity to its artist's.
type PopularityPoint struct {
	Track            string `yaml:"track"`
	Artist           string `yaml:"artist"`
	TrackPopularity  int64  `yaml:"track_popularity"`
	ArtistPopularity int64  `yaml:"artist_popularity"`
	TrackListens     int64  `yaml:"track_listens"`
}

// Popularity inner-joins tracks to artists on artist name.
func Popularity(tracks []dataset.TrackFeatures, artists []Artist) []PopularityPoint {
	byName := make(map[string][]Artist, len(artists))
	for _, a := range artists {
		byName[a.Name] = append(byName[a.Name], a)
	}
	var out []PopularityPoint
	for _, t := range tracks {
		for _, a := range byName[t.ArtistName] {
			out = append(out, PopularityPoint{
				Track:            t.TrackName,
				Artist:           t.ArtistName,
				TrackPopularity:  t.Popularity,
				ArtistPopularity: a.Popularity,
				TrackListens:     t.NListens,
			})
		}
	}
	return out
}

// GenreTotal aggregates one broad genre across artists and plays.
type GenreTotal struct {
	Genre   genre.BroadGenre `yaml:"genre"`
	Artists int              `yaml:"artists"`
	Plays   int              `yaml:"plays"`
	Minutes float64          `yaml:"minutes"`
}

// GenreTotals counts artists per broad genre and plays and minutes per broad
// genre, in genre order. Every genre appears, including empty ones.
func GenreTotals(artists []Artist, rows []DerivedRow) []GenreTotal {
	totals := make(map[genre.BroadGenre]*GenreTotal)
	for _, g := range genre.All() {
		totals[g] = &GenreTotal{Genre: g}
	}
	for _, a := range artists {
		totals[a.BroadGenre].Artists++
	}
	for _, r := range rows {
		totals[r.Artist.BroadGenre].Plays++
		totals[r.Artist.BroadGenre].Minutes += r.MinutesPlayed
	}

	out := make([]GenreTotal, 0, len(totals))
	for _, g := range genre.All() {
		out = append(out, *totals[g])
	}
	return out
}

func genreByArtist(artists []Artist) map[string]genre.BroadGenre {
	m := make(map[string]genre.BroadGenre, len(artists))
	for _, a := range artists {
		m[a.Name] = a.BroadGenre
	}
	return m
}
