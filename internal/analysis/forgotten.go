package analysis

import (
	"sort"
	"time"
)

type ForgottenConfig struct {
	// LastPlayedBefore keeps only entries whose most recent play is earlier.
	LastPlayedBefore time.Time
	MinArtistPlays   int
	MinTrackPlays    int
	ResultsPerBand   int
	SortBy           string // "dormancy" or "plays"
}

type ForgottenArtist struct {
	Artist        string
	Plays         int
	FirstPlay     time.Time
	LastPlay      time.Time
	DaysSinceLast int
	Band          string
}

type ForgottenTrack struct {
	Artist        string
	Track         string
	Plays         int
	FirstPlay     time.Time
	LastPlay      time.Time
	DaysSinceLast int
	Band          string
}

const (
	BandObsession = "Obsession"
	BandStrong    = "Strong"
	BandModerate  = "Moderate"

	ThresholdArtistObsession = 120
	ThresholdArtistStrong    = 50
	ThresholdArtistModerate  = 15

	ThresholdTrackObsession = 60
	ThresholdTrackStrong    = 30
	ThresholdTrackModerate  = 10
)

// Bands lists the interest bands, strongest first.
var Bands = []string{BandObsession, BandStrong, BandModerate}

// Threshold is the minimum play count for band.
func Threshold(band string, isArtist bool) int {
	switch band {
	case BandObsession:
		if isArtist {
			return ThresholdArtistObsession
		}
		return ThresholdTrackObsession
	case BandStrong:
		if isArtist {
			return ThresholdArtistStrong
		}
		return ThresholdTrackStrong
	case BandModerate:
		if isArtist {
			return ThresholdArtistModerate
		}
		return ThresholdTrackModerate
	}
	return 0
}

func determineBand(plays int, isArtist bool) string {
	obsession, strong, moderate := ThresholdTrackObsession, ThresholdTrackStrong, ThresholdTrackModerate
	if isArtist {
		obsession, strong, moderate = ThresholdArtistObsession, ThresholdArtistStrong, ThresholdArtistModerate
	}
	switch {
	case plays >= obsession:
		return BandObsession
	case plays >= strong:
		return BandStrong
	case plays >= moderate:
		return BandModerate
	}
	return ""
}

type playSpan struct {
	plays       int
	first, last time.Time
}

func (s *playSpan) add(t time.Time) {
	if s.plays == 0 || t.Before(s.first) {
		s.first = t
	}
	if s.plays == 0 || t.After(s.last) {
		s.last = t
	}
	s.plays++
}

// ForgottenArtists groups artists that were played heavily but not since
// cfg.LastPlayedBefore into interest bands. Dormancy is measured from now.
func ForgottenArtists(rows []DerivedRow, cfg ForgottenConfig, now time.Time) map[string][]ForgottenArtist {
	spans := make(map[string]*playSpan)
	for _, r := range rows {
		s, ok := spans[r.Event.ArtistName]
		if !ok {
			s = &playSpan{}
			spans[r.Event.ArtistName] = s
		}
		s.add(r.Event.EndTime)
	}

	results := make(map[string][]ForgottenArtist)
	for name, s := range spans {
		if s.plays < cfg.MinArtistPlays || !forgotten(s, cfg) {
			continue
		}
		a := ForgottenArtist{
			Artist:        name,
			Plays:         s.plays,
			FirstPlay:     s.first,
			LastPlay:      s.last,
			DaysSinceLast: int(now.Sub(s.last).Hours() / 24),
		}
		a.Band = determineBand(a.Plays, true)
		if a.Band == "" {
			continue
		}
		results[a.Band] = append(results[a.Band], a)
	}

	for band := range results {
		sortArtists(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}
	return results
}

// ForgottenTracks is ForgottenArtists for individual tracks.
func ForgottenTracks(rows []DerivedRow, cfg ForgottenConfig, now time.Time) map[string][]ForgottenTrack {
	spans := make(map[trackKey]*playSpan)
	for _, r := range rows {
		k := trackKey{r.Event.TrackName, r.Event.ArtistName}
		s, ok := spans[k]
		if !ok {
			s = &playSpan{}
			spans[k] = s
		}
		s.add(r.Event.EndTime)
	}

	results := make(map[string][]ForgottenTrack)
	for k, s := range spans {
		if s.plays < cfg.MinTrackPlays || !forgotten(s, cfg) {
			continue
		}
		t := ForgottenTrack{
			Artist:        k.artist,
			Track:         k.track,
			Plays:         s.plays,
			FirstPlay:     s.first,
			LastPlay:      s.last,
			DaysSinceLast: int(now.Sub(s.last).Hours() / 24),
		}
		t.Band = determineBand(t.Plays, false)
		if t.Band == "" {
			continue
		}
		results[t.Band] = append(results[t.Band], t)
	}

	for band := range results {
		sortTracks(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}
	return results
}

func forgotten(s *playSpan, cfg ForgottenConfig) bool {
	return cfg.LastPlayedBefore.IsZero() || s.last.Before(cfg.LastPlayedBefore)
}

func sortArtists(artists []ForgottenArtist, sortBy string) {
	sort.Slice(artists, func(i, j int) bool {
		if sortBy == "plays" && artists[i].Plays != artists[j].Plays {
			return artists[i].Plays > artists[j].Plays
		}
		if artists[i].DaysSinceLast != artists[j].DaysSinceLast {
			// Longest dormancy first
			return artists[i].DaysSinceLast > artists[j].DaysSinceLast
		}
		return artists[i].Artist < artists[j].Artist
	})
}

func sortTracks(tracks []ForgottenTrack, sortBy string) {
	sort.Slice(tracks, func(i, j int) bool {
		if sortBy == "plays" && tracks[i].Plays != tracks[j].Plays {
			return tracks[i].Plays > tracks[j].Plays
		}
		if tracks[i].DaysSinceLast != tracks[j].DaysSinceLast {
			return tracks[i].DaysSinceLast > tracks[j].DaysSinceLast
		}
		return tracks[i].Track < tracks[j].Track
	})
}
