// Package testsupport writes small CSV snapshots for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// Source is the variant name the fixture files are written under.
const Source = "test"

// StreamingHistoryCSV has one event without track features (Ghost Track),
// one whose track has a zero duration (Static) and one unparseable row.
const StreamingHistoryCSV = `endTime,artistName,trackName,msPlayed,day_of_week
2020-03-02 08:15,Washed Out,Feel It All Around,15000,Monday
2020-03-02 21:40,Disclosure,Latch,250000,Monday
2020-03-07 13:05,Disclosure,Omen,19999,Saturday
2020-04-10 23:59,Bon Iver,Holocene,20000,Friday
2020-04-11 10:00,Unknown Artist,Ghost Track,60000,Saturday
2020-04-12 11:30,Broken Band,Static,120000,Sunday
not a date,Disclosure,Latch,1000,Monday
`

const TrackFeaturesCSV = `trackName,artistName,duration_ms,danceability,energy,valence,instrumentalness,speechiness,acousticness,popularity,n_listens
Feel It All Around,Washed Out,200000,0.55,0.40,0.30,0.60,0.03,0.20,55,1
Latch,Disclosure,200000,0.70,0.80,0.50,0.00,0.05,0.02,80,1
Omen,Disclosure,240000.0,0.75,0.85,0.45,0.10,0.04,0.01,60,1
Holocene,Bon Iver,337000,0.30,0.20,0.15,0.05,0.03,0.90,70,1
Static,Broken Band,0,0.5,0.5,0.5,0.5,0.5,0.5,10,1
`

// ArtistsCSV classifies as: Washed Out Tie Genre, Disclosure Electronica,
// Bon Iver Indie, Broken Band No Genre (malformed), Unknown Artist No Genre.
const ArtistsCSV = `artistName,genres,popularity,n_listens
Washed Out,"['indie pop', 'chillwave']",60,1
Disclosure,"['deep house', 'edm']",78,2
Bon Iver,"['indie folk', 'indie pop', 'melancholia']",75,1
Broken Band,"['unterminated",5,1
Unknown Artist,,0,0
`

const GenresCSV = `genre,n_listens
indie pop,2
chillwave,1
deep house,2
edm,2
indie folk,1
melancholia,1
`

// WriteSnapshot writes the fixture tables into dir and returns dir.
func WriteSnapshot(t testing.TB, dir string) string {
	t.Helper()

	files := map[string]string{
		"streaming_history": StreamingHistoryCSV,
		"track_features":    TrackFeaturesCSV,
		"artists":           ArtistsCSV,
		"genres":            GenresCSV,
	}
	for table, content := range files {
		path := filepath.Join(dir, table+"_"+Source+".csv")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}
