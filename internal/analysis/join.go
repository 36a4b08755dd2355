package analysis

import (
	"fmt"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

// Artist is an artist table row with its broad genre attached.
type Artist struct {
	dataset.Artist
	Genres     []string
	BroadGenre genre.BroadGenre
}

// ClassifyArtists runs the classifier over the artist table. The result
// keeps the table's order.
func ClassifyArtists(artists []dataset.Artist, c *genre.Classifier) ([]Artist, error) {
	records := make([]genre.ArtistRecord, len(artists))
	for i, a := range artists {
		records[i] = a.Record()
	}
	classified, err := c.ClassifyAll(records)
	if err != nil {
		return nil, fmt.Errorf("classifying artists: %w", err)
	}

	out := make([]Artist, len(artists))
	for i, a := range artists {
		out[i] = Artist{Artist: a, Genres: classified[i].Genres, BroadGenre: classified[i].BroadGenre}
	}
	return out, nil
}

// Row is one streaming event joined with its track's features and its
// classified artist.
type Row struct {
	Event  dataset.StreamingEvent
	Track  dataset.TrackFeatures
	Artist Artist
}

// JoinStats counts what the inner joins dropped.
type JoinStats struct {
	Events        int
	Joined        int
	MissingTrack  int
	MissingArtist int
}

type trackKey struct {
	track, artist string
}

// Join inner-joins events to track features on (track name, artist name) and
// the result to artists on artist name. Events with no match are dropped.
// Duplicate keys in tracks or artists repeat the event once per match.
func Join(events []dataset.StreamingEvent, tracks []dataset.TrackFeatures, artists []Artist) ([]Row, JoinStats) {
	byTrack := make(map[trackKey][]dataset.TrackFeatures, len(tracks))
	for _, t := range tracks {
		k := trackKey{t.TrackName, t.ArtistName}
		byTrack[k] = append(byTrack[k], t)
	}
	byArtist := make(map[string][]Artist, len(artists))
	for _, a := range artists {
		byArtist[a.Name] = append(byArtist[a.Name], a)
	}

	stats := JoinStats{Events: len(events)}
	var rows []Row
	for _, e := range events {
		matches, ok := byTrack[trackKey{e.TrackName, e.ArtistName}]
		if !ok {
			stats.MissingTrack++
			continue
		}
		as, ok := byArtist[e.ArtistName]
		if !ok {
			stats.MissingArtist++
			continue
		}
		for _, t := range matches {
			for _, a := range as {
				rows = append(rows, Row{Event: e, Track: t, Artist: a})
			}
		}
	}
	stats.Joined = len(rows)
	return rows, stats
}
