package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var showDataTable string
var showDataNumber int
var showDataCmd = &cobra.Command{
	Use:   "show-data [from (optional)] [to (optional)]",
	Short: "Prints the first rows of a loaded table",
	Long: `Prints the first rows of one table: events, tracks, artists, genres, or merged,
the joined and derived plays after filtering. Date arguments only apply to merged.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a := ShowDataAnalyzer{Table: showDataTable, Config: AnalyserConfig{NumToReturn: showDataNumber}}
		if err := runAnalyser(cmd.OutOrStdout(), a, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showDataCmd)

	showDataCmd.Flags().StringVar(&showDataTable, "table", "merged", "table to show: events, tracks, artists, genres or merged")
	showDataCmd.Flags().IntVarP(&showDataNumber, "number", "n", 10, "number of rows to show, 0 for all")
}

type ShowDataAnalyzer struct {
	Table  string
	Config AnalyserConfig
}

func (t ShowDataAnalyzer) GetName() string {
	return "Show data"
}

func (t ShowDataAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	var rows [][]string
	switch t.Table {
	case "events":
		rows = append(rows, []string{"End time", "Artist", "Track", "Ms played", "Day"})
		for _, e := range s.Tables.Events {
			rows = append(rows, []string{e.EndTime.Format("2006-01-02 15:04"), e.ArtistName, e.TrackName,
				strconv.FormatInt(e.MsPlayed, 10), e.DayOfWeek})
		}

	case "tracks":
		rows = append(rows, []string{"Track", "Artist", "Duration ms", "Danceability", "Energy", "Valence", "Popularity", "Listens"})
		for _, tr := range s.Tables.Tracks {
			rows = append(rows, []string{tr.TrackName, tr.ArtistName, strconv.FormatInt(tr.DurationMs, 10),
				formatFeature(tr.Danceability), formatFeature(tr.Energy), formatFeature(tr.Valence),
				strconv.FormatInt(tr.Popularity, 10), strconv.FormatInt(tr.NListens, 10)})
		}

	case "artists":
		rows = append(rows, []string{"Artist", "Genres", "Broad genre", "Popularity", "Listens"})
		for _, a := range s.Artists {
			rows = append(rows, []string{a.Name, strings.Join(a.Genres, ", "), a.BroadGenre.String(),
				strconv.FormatInt(a.Popularity, 10), strconv.FormatInt(a.NListens, 10)})
		}

	case "genres":
		rows = append(rows, []string{"Genre", "Listens"})
		for _, g := range s.Tables.Genres {
			rows = append(rows, []string{g.Name, strconv.FormatInt(g.NListens, 10)})
		}

	case "merged":
		rows = append(rows, []string{"End time", "Artist", "Track", "Broad genre", "% played", "Minutes", "Short"})
		for _, r := range s.Rows {
			rows = append(rows, []string{r.Event.EndTime.Format("2006-01-02 15:04"), r.Artist.Name, r.Track.TrackName,
				r.Artist.BroadGenre.String(), fmt.Sprintf("%.2f", r.PercentPlayed), fmt.Sprintf("%.2f", r.MinutesPlayed),
				strconv.FormatBool(r.ShortPlay)})
		}

	default:
		err = fmt.Errorf("unknown table %q", t.Table)
		return
	}

	total := len(rows) - 1
	if t.Config.NumToReturn > 0 && total > t.Config.NumToReturn {
		rows = rows[:t.Config.NumToReturn+1]
	}
	result.results = rows
	result.summary = printer.Sprintf("Showing %d of %d rows", len(rows)-1, total)
	if t.Table == "merged" {
		result.summary += printer.Sprintf("\n%d events, %d joined, %d without track features, %d without an artist, %d rejected",
			s.Stats.Events, s.Stats.Joined, s.Stats.MissingTrack, s.Stats.MissingArtist, s.Rejected)
	}
	return
}
