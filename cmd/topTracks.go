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
)

var topTracksNumber int
var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [from (optional)] [to (optional)]",
	Short: "Gets the most played tracks",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '90d', '6m', '1y'.`,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		config := AnalyserConfig{NumToReturn: topTracksNumber}
		if err := runAnalyser(cmd.OutOrStdout(), TopTracksAnalyzer{Config: config}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", 10, "number of results to return")
}

type trackCount struct {
	Artist        string
	Track         string
	Plays         int64
	PercentPlayed float64
}

type TopTracksAnalyzer struct {
	Config AnalyserConfig
}

func (t TopTracksAnalyzer) GetName() string {
	return "Top tracks"
}

func (t TopTracksAnalyzer) GetResults(s *Session) (analysis Analysis, err error) {
	type key struct{ artist, track string }
	byTrack := make(map[key]*trackCount)
	for _, r := range s.Rows {
		k := key{r.Artist.Name, r.Track.TrackName}
		c, ok := byTrack[k]
		if !ok {
			c = &trackCount{Artist: k.artist, Track: k.track}
			byTrack[k] = c
		}
		c.Plays++
		c.PercentPlayed += r.PercentPlayed
	}

	counts := make([]trackCount, 0, len(byTrack))
	for _, c := range byTrack {
		c.PercentPlayed /= float64(c.Plays)
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Plays != counts[j].Plays {
			return counts[i].Plays > counts[j].Plays
		}
		if counts[i].Artist != counts[j].Artist {
			return counts[i].Artist < counts[j].Artist
		}
		return counts[i].Track < counts[j].Track
	})

	var numListens int64 = 0
	analysis.results = [][]string{{"Artist", "Track", "Listens", "Avg % played"}}
	for i, c := range counts {
		if t.Config.NumToReturn == 0 || i < t.Config.NumToReturn {
			analysis.results = append(analysis.results, []string{
				c.Artist, c.Track, strconv.FormatInt(c.Plays, 10), fmt.Sprintf("%.1f", c.PercentPlayed)})
		}
		numListens += c.Plays
	}

	analysis.summary = printer.Sprintf("Found %d tracks and %d listens %s",
		len(counts), numListens, s.describeRange())
	return
}
