// Package dataset reads the four exported CSV tables: streaming history,
// track features, artists and genres.
package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ademuri/spotify-explorer/internal/genre"
)

// StreamingEvent is one logged play.
type StreamingEvent struct {
	EndTime    time.Time
	ArtistName string
	TrackName  string
	MsPlayed   int64
	DayOfWeek  string
}

// TrackFeatures holds a track's audio analysis. The six audio metrics are
// normalized to [0, 1].
type TrackFeatures struct {
	TrackName        string
	ArtistName       string
	DurationMs       int64
	Danceability     float64
	Energy           float64
	Valence          float64
	Instrumentalness float64
	Speechiness      float64
	Acousticness     float64
	Popularity       int64
	NListens         int64
}

// Feature returns the named audio metric.
func (t TrackFeatures) Feature(name string) (float64, error) {
	switch name {
	case "danceability":
		return t.Danceability, nil
	case "energy":
		return t.Energy, nil
	case "valence":
		return t.Valence, nil
	case "instrumentalness":
		return t.Instrumentalness, nil
	case "speechiness":
		return t.Speechiness, nil
	case "acousticness":
		return t.Acousticness, nil
	}
	return 0, fmt.Errorf("unknown audio feature %q", name)
}

// FeatureNames lists the audio metrics Feature accepts.
var FeatureNames = []string{"danceability", "energy", "valence", "instrumentalness", "speechiness", "acousticness"}

type Artist struct {
	Name string
	// Genres is the raw serialized genre list, empty when unknown.
	Genres     string
	Popularity int64
	NListens   int64
}

func (a Artist) Record() genre.ArtistRecord {
	return genre.ArtistRecord{Name: a.Name, Raw: a.Genres}
}

type Genre struct {
	Name     string
	NListens int64
}

// Tables is one loaded snapshot of the exported data.
type Tables struct {
	Events  []StreamingEvent
	Tracks  []TrackFeatures
	Artists []Artist
	Genres  []Genre
}

// Source locates a variant of the exported files, e.g. the "public" variant
// is streaming_history_public.csv and friends.
type Source struct {
	Dir      string
	Name     string
	Location *time.Location
	Logger   *slog.Logger
}

const (
	StreamingHistoryTable = "streaming_history"
	TrackFeaturesTable    = "track_features"
	ArtistsTable          = "artists"
	GenresTable           = "genres"
)

func (s Source) Path(table string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.csv", table, s.Name))
}

func (s Source) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s Source) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// Load reads all four tables.
func Load(src Source) (*Tables, error) {
	logger := src.logger()
	var t Tables
	var err error

	if t.Events, err = readFile(src.Path(StreamingHistoryTable), func(r io.Reader) ([]StreamingEvent, error) {
		return ReadStreamingHistory(r, src.location(), logger)
	}); err != nil {
		return nil, err
	}
	if t.Tracks, err = readFile(src.Path(TrackFeaturesTable), func(r io.Reader) ([]TrackFeatures, error) {
		return ReadTrackFeatures(r, logger)
	}); err != nil {
		return nil, err
	}
	if t.Artists, err = readFile(src.Path(ArtistsTable), func(r io.Reader) ([]Artist, error) {
		return ReadArtists(r, logger)
	}); err != nil {
		return nil, err
	}
	if t.Genres, err = readFile(src.Path(GenresTable), func(r io.Reader) ([]Genre, error) {
		return ReadGenres(r, logger)
	}); err != nil {
		return nil, err
	}

	logger.Info("loaded tables",
		"source", src.Name,
		"events", len(t.Events),
		"tracks", len(t.Tracks),
		"artists", len(t.Artists),
		"genres", len(t.Genres))
	return &t, nil
}
