package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/dataset"
)

// brushOptions are the flags selecting a rectangle of the feature scatter.
type brushOptions struct {
	x, y           string
	xRange, yRange string
}

func (o *brushOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.x, "x", "energy", "Audio feature on the x axis")
	cmd.Flags().StringVar(&o.y, "y", "danceability", "Audio feature on the y axis")
	cmd.Flags().StringVar(&o.xRange, "x-range", "", "Select tracks whose x value is in min:max")
	cmd.Flags().StringVar(&o.yRange, "y-range", "", "Select tracks whose y value is in min:max")
}

func (o brushOptions) brush() (analysis.Brush, error) {
	b := analysis.Brush{X: o.x, Y: o.y}
	for _, f := range []string{o.x, o.y} {
		if !slices.Contains(dataset.FeatureNames, f) {
			return b, fmt.Errorf("unknown audio feature %q, expected one of %v", f, dataset.FeatureNames)
		}
	}
	if o.xRange != "" {
		r, err := analysis.ParseRange(o.xRange)
		if err != nil {
			return b, err
		}
		b.XRange = &r
	}
	if o.yRange != "" {
		r, err := analysis.ParseRange(o.yRange)
		if err != nil {
			return b, err
		}
		b.YRange = &r
	}
	return b, nil
}

var scatterBrush brushOptions
var scatterNumber int
var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Plots two audio features of every track and the genre mix of a selection",
	Long: `Lists each track's position on two audio features, colored by its artist's
broad genre. --x-range and --y-range select a rectangle; the genre mix of the
selected tracks, weighted by listens, is printed below the points.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := scatterBrush.brush()
		if err == nil {
			err = runAnalyser(cmd.OutOrStdout(), ScatterAnalyzer{Brush: b, Config: AnalyserConfig{NumToReturn: scatterNumber}}, args)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scatterCmd)

	scatterBrush.addFlags(scatterCmd)
	scatterCmd.Flags().IntVarP(&scatterNumber, "number", "n", 0, "number of points to list, default is all")
}

type ScatterAnalyzer struct {
	Brush  analysis.Brush
	Config AnalyserConfig
}

func (t ScatterAnalyzer) GetName() string {
	return "Scatter"
}

func (t ScatterAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	artists, tracks := s.catalog()
	points, err := analysis.Scatter(tracks, artists, t.Brush)
	if err != nil {
		return
	}

	result.results = [][]string{{"Track", "Artist", "Genre", t.Brush.X, t.Brush.Y, "Listens", "Selected"}}
	selected := 0
	for i, p := range points {
		if p.Selected {
			selected++
		}
		if t.Config.NumToReturn != 0 && i >= t.Config.NumToReturn {
			continue
		}
		mark := ""
		if p.Selected {
			mark = "*"
		}
		result.results = append(result.results, []string{
			p.Track, p.Artist, p.Genre.String(), formatFeature(p.X), formatFeature(p.Y),
			strconv.FormatInt(p.NListens, 10), mark})
	}

	summary := printer.Sprintf("%d tracks, %d selected", len(points), selected)
	if t.Brush.Active() {
		mix := [][]string{{"Genre", "Tracks", "Listens", "Share"}}
		for _, g := range analysis.SelectionMix(points) {
			mix = append(mix, []string{g.Genre.String(), strconv.Itoa(g.Tracks),
				strconv.FormatInt(g.Listens, 10), fmt.Sprintf("%.1f%%", g.Fraction*100)})
		}
		var b strings.Builder
		b.WriteString(summary + "\n\nSelection by genre\n")
		if err = renderTable(&b, mix); err != nil {
			return
		}
		summary = b.String()
	}
	result.summary = summary
	return
}
