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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
)

var newArtistsNumber int
var newArtistsMin int64
var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [from] [to (optional)]",
	Short: "Gets new artists for the given time period",
	Long: `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '90d', '6m', '1y'.

An artist is new when it had fewer than --min plays before the period and at
least --min plays during it.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		config := AnalyserConfig{NumToReturn: newArtistsNumber, FilterThreshold: newArtistsMin}
		if err := runAnalyser(cmd.OutOrStdout(), &NewArtistsAnalyzer{Config: config}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)

	newArtistsCmd.Flags().IntVarP(&newArtistsNumber, "number", "n", 0, "number of results to return")
	newArtistsCmd.Flags().Int64Var(&newArtistsMin, "min", 5, "plays needed for an artist to count as known")
}

type NewArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t *NewArtistsAnalyzer) GetName() string {
	return "New artists"
}

func (t *NewArtistsAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	var before []analysis.DerivedRow
	for _, r := range s.undated() {
		if r.Event.EndTime.Before(s.Filter.Start) {
			before = append(before, r)
		}
	}
	prevArtists := make(map[string]int64)
	for _, c := range countArtists(before) {
		prevArtists[c.Artist] = c.Plays
	}
	curArtists := countArtists(s.Rows)

	result.results = append(result.results, []string{"Artist", "Genre", "Listens"})
	n := 0
	var numListens int64 = 0
	for _, c := range curArtists {
		if prevListens, ok := prevArtists[c.Artist]; (ok && prevListens >= t.Config.FilterThreshold) || c.Plays < t.Config.FilterThreshold {
			continue
		}
		if t.Config.NumToReturn == 0 || n < t.Config.NumToReturn {
			result.results = append(result.results, []string{c.Artist, c.Genre.String(), strconv.FormatInt(c.Plays, 10)})
		}
		n += 1
		numListens += c.Plays
	}

	result.summary = printer.Sprintf("Got %d previous artists, %d current artists\nFound %d new artists with %d listens %s",
		len(prevArtists), len(curArtists), n, numListens, s.describeRange())
	return
}
