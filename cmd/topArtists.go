/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from (optional)] [to (optional)]",
	Short: "Gets the most played artists",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '90d', '6m', '1y'.`,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		config := AnalyserConfig{NumToReturn: topArtistsNumber}
		if err := runAnalyser(cmd.OutOrStdout(), TopArtistsAnalyzer{Config: config}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

// artistCount is one artist's plays within a set of rows.
type artistCount struct {
	Artist  string
	Genre   genre.BroadGenre
	Plays   int64
	Minutes float64
}

// countArtists totals rows per artist, most played first.
func countArtists(rows []analysis.DerivedRow) []artistCount {
	byArtist := make(map[string]*artistCount)
	for _, r := range rows {
		c, ok := byArtist[r.Artist.Name]
		if !ok {
			c = &artistCount{Artist: r.Artist.Name, Genre: r.Artist.BroadGenre}
			byArtist[r.Artist.Name] = c
		}
		c.Plays++
		c.Minutes += r.MinutesPlayed
	}

	counts := make([]artistCount, 0, len(byArtist))
	for _, c := range byArtist {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Plays != counts[j].Plays {
			return counts[i].Plays > counts[j].Plays
		}
		return counts[i].Artist < counts[j].Artist
	})
	return counts
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(s *Session) (analysis Analysis, err error) {
	counts := countArtists(s.Rows)

	var numListens int64 = 0
	analysis.results = [][]string{{"Artist", "Genre", "Listens", "Minutes"}}
	for i, c := range counts {
		if (t.Config.NumToReturn == 0 || i < t.Config.NumToReturn) && (t.Config.FilterThreshold == 0 || c.Plays > t.Config.FilterThreshold) {
			analysis.results = append(analysis.results, []string{
				c.Artist, c.Genre.String(), strconv.FormatInt(c.Plays, 10), formatMinutes(c.Minutes)})
		}
		numListens += c.Plays
	}

	analysis.summary = printer.Sprintf("Found %d artists and %d listens %s",
		len(counts), numListens, s.describeRange())
	return
}
