package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/dataset"
)

var featureName string
var featuresCmd = &cobra.Command{
	Use:   "features [from (optional)] [to (optional)]",
	Short: "Distribution of one audio feature per broad genre",
	Long: `Summarizes an audio feature (danceability, energy, valence, instrumentalness,
speechiness or acousticness) over every play of each broad genre.

` + dateArgsHelp,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyser(cmd.OutOrStdout(), FeaturesAnalyzer{Feature: featureName}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var popularityNumber int
var popularityCmd = &cobra.Command{
	Use:   "popularity",
	Short: "Compares each track's popularity with its artist's",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := AnalyserConfig{NumToReturn: popularityNumber}
		if err := runAnalyser(cmd.OutOrStdout(), PopularityAnalyzer{Config: config}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(popularityCmd)

	featuresCmd.Flags().StringVar(&featureName, "feature", "energy", "audio feature to summarize")
	popularityCmd.Flags().IntVarP(&popularityNumber, "number", "n", 0, "number of tracks to list, default is all")
}

type FeaturesAnalyzer struct {
	Feature string
}

func (f FeaturesAnalyzer) GetName() string {
	return "Features"
}

func (f FeaturesAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	if !slices.Contains(dataset.FeatureNames, f.Feature) {
		err = fmt.Errorf("unknown audio feature %q, expected one of %v", f.Feature, dataset.FeatureNames)
		return
	}
	dists, err := analysis.FeatureDistribution(s.Rows, f.Feature)
	if err != nil {
		return
	}

	result.results = [][]string{{"Genre", "Plays", "Min", "Q1", "Median", "Q3", "Max", "Mean"}}
	for _, d := range dists {
		result.results = append(result.results, []string{
			d.Genre.String(), strconv.Itoa(d.Count),
			formatFeature(d.Min), formatFeature(d.Q1), formatFeature(d.Median),
			formatFeature(d.Q3), formatFeature(d.Max), formatFeature(d.Mean),
		})
	}
	result.summary = printer.Sprintf("%s over %d plays %s", f.Feature, len(s.Rows), s.describeRange())
	return
}

type PopularityAnalyzer struct {
	Config AnalyserConfig
}

func (p PopularityAnalyzer) GetName() string {
	return "Popularity"
}

func (p PopularityAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	artists, tracks := s.catalog()
	points := analysis.Popularity(tracks, artists)

	result.results = [][]string{{"Track", "Artist", "Track popularity", "Artist popularity", "Listens"}}
	for i, pt := range points {
		if p.Config.NumToReturn != 0 && i >= p.Config.NumToReturn {
			break
		}
		result.results = append(result.results, []string{
			pt.Track, pt.Artist,
			strconv.FormatInt(pt.TrackPopularity, 10),
			strconv.FormatInt(pt.ArtistPopularity, 10),
			strconv.FormatInt(pt.TrackListens, 10),
		})
	}
	result.summary = printer.Sprintf("%d tracks with a known artist", len(points))
	return
}
