package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
)

var (
	minArtistPlays      int
	minTrackPlays       int
	resultsPerBand      int
	forgottenSortBy     string
	lastPlayedBeforeStr string
)

var forgottenCmd = &cobra.Command{
	Use:   "forgotten",
	Short: "Surfaces artists and tracks played heavily in the past but not recently",
	Long:  `Identifies music that has fallen out of rotation based on dormancy and historical play counts.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := &ForgottenAnalyzer{}
		err := a.Configure(lastPlayedBeforeStr, time.Now())
		if err == nil {
			err = runAnalyser(cmd.OutOrStdout(), a, nil)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgottenCmd)

	forgottenCmd.Flags().IntVar(&minArtistPlays, "min-artist", analysis.ThresholdArtistModerate, "Minimum plays for artist inclusion")
	forgottenCmd.Flags().IntVar(&minTrackPlays, "min-track", analysis.ThresholdTrackModerate, "Minimum plays for track inclusion")
	forgottenCmd.Flags().IntVar(&resultsPerBand, "results", 10, "Max results shown per interest band")
	forgottenCmd.Flags().StringVar(&forgottenSortBy, "sort", "dormancy", "Sort order: 'dormancy' or 'plays'")
	forgottenCmd.Flags().StringVar(&lastPlayedBeforeStr, "last_played_before", "90d", "Only include entries last played before this date (yyyy-mm-dd or a relative 90d)")
}

type ForgottenAnalyzer struct {
	Config analysis.ForgottenConfig
	Now    time.Time
}

// Configure reads the command's flags. lastPlayedBefore may be empty, in
// which case dormancy isn't required.
func (f *ForgottenAnalyzer) Configure(lastPlayedBefore string, now time.Time) error {
	if forgottenSortBy != "dormancy" && forgottenSortBy != "plays" {
		return fmt.Errorf("invalid sort %q: expected 'dormancy' or 'plays'", forgottenSortBy)
	}
	f.Now = now
	f.Config = analysis.ForgottenConfig{
		MinArtistPlays: minArtistPlays,
		MinTrackPlays:  minTrackPlays,
		ResultsPerBand: resultsPerBand,
		SortBy:         forgottenSortBy,
	}
	if lastPlayedBefore != "" {
		pd, err := parseSingleDatestring(lastPlayedBefore)
		if err != nil {
			return fmt.Errorf("invalid last_played_before: %w", err)
		}
		f.Config.LastPlayedBefore = pd.Date
	}
	return nil
}

func (f *ForgottenAnalyzer) GetName() string {
	return "Forgotten"
}

func (f *ForgottenAnalyzer) GetResults(s *Session) (Analysis, error) {
	var a Analysis
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	f.Config.LastPlayedBefore = inLocation(f.Config.LastPlayedBefore, s.Location)

	artists := analysis.ForgottenArtists(s.Rows, f.Config, now)
	tracks := analysis.ForgottenTracks(s.Rows, f.Config, now)

	out := new(bytes.Buffer)
	fmt.Fprintln(out, "## Forgotten artists")
	numArtists := 0
	for _, band := range analysis.Bands {
		items := artists[band]
		if len(items) == 0 {
			continue
		}
		numArtists += len(items)
		fmt.Fprintf(out, "\n### %s interest (%d+ plays)\n", band, analysis.Threshold(band, true))
		results := [][]string{{"Artist", "Plays", "Last played", "Days since"}}
		for _, item := range items {
			results = append(results, []string{
				item.Artist,
				strconv.Itoa(item.Plays),
				item.LastPlay.Format("2006-01-02"),
				strconv.Itoa(item.DaysSinceLast),
			})
		}
		if err := renderTable(out, results); err != nil {
			return a, err
		}
	}

	fmt.Fprintln(out, "\n## Forgotten tracks")
	numTracks := 0
	for _, band := range analysis.Bands {
		items := tracks[band]
		if len(items) == 0 {
			continue
		}
		numTracks += len(items)
		fmt.Fprintf(out, "\n### %s interest (%d+ plays)\n", band, analysis.Threshold(band, false))
		results := [][]string{{"Artist", "Track", "Plays", "Last played", "Days since"}}
		for _, item := range items {
			results = append(results, []string{
				item.Artist,
				item.Track,
				strconv.Itoa(item.Plays),
				item.LastPlay.Format("2006-01-02"),
				strconv.Itoa(item.DaysSinceLast),
			})
		}
		if err := renderTable(out, results); err != nil {
			return a, err
		}
	}

	fmt.Fprintf(out, "\nFound %d forgotten artists and %d forgotten tracks", numArtists, numTracks)
	a.summary = out.String()
	return a, nil
}
