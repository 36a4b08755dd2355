package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

const dateArgsHelp = `Uses the specified date or date range, or all plays when none is given. Date
strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '90d', '6m', '1y'.`

var weekdayCmd = &cobra.Command{
	Use:   "weekday [from (optional)] [to (optional)]",
	Short: "Totals plays and minutes per day of the week",
	Long:  dateArgsHelp,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyser(cmd.OutOrStdout(), WeekdayAnalyzer{}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [from (optional)] [to (optional)]",
	Short: "Counts plays per hour of the day and day of the week",
	Long:  dateArgsHelp,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyser(cmd.OutOrStdout(), HeatmapAnalyzer{}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var playsBinWidth float64
var playsCmd = &cobra.Command{
	Use:   "plays [from (optional)] [to (optional)]",
	Short: "Histogram of percent played, split into short and full plays",
	Long:  dateArgsHelp,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyser(cmd.OutOrStdout(), PlaysAnalyzer{Width: playsBinWidth}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var streamgraphCmd = &cobra.Command{
	Use:   "streamgraph [from (optional)] [to (optional)]",
	Short: "Minutes played per month and broad genre",
	Long:  dateArgsHelp,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyser(cmd.OutOrStdout(), StreamgraphAnalyzer{}, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(weekdayCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(playsCmd)
	rootCmd.AddCommand(streamgraphCmd)

	playsCmd.Flags().Float64Var(&playsBinWidth, "width", 10, "bin width in percent")
}

type WeekdayAnalyzer struct{}

func (WeekdayAnalyzer) GetName() string {
	return "Weekday"
}

func (WeekdayAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	result.results = [][]string{{"Weekday", "Plays", "Minutes"}}
	for _, t := range analysis.WeekdayTotals(s.Rows) {
		result.results = append(result.results, []string{t.Day, strconv.Itoa(t.Plays), formatMinutes(t.Minutes)})
	}
	result.summary = printer.Sprintf("%d plays %s", len(s.Rows), s.describeRange())
	return
}

type HeatmapAnalyzer struct{}

func (HeatmapAnalyzer) GetName() string {
	return "Heatmap"
}

func (HeatmapAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	h := analysis.HourWeekdayHeatmap(s.Rows)

	header := []string{"Hour"}
	for _, d := range analysis.Weekdays {
		header = append(header, d.String()[:3])
	}
	result.results = [][]string{header}
	for hour := 0; hour < 24; hour++ {
		row := []string{fmt.Sprintf("%02d", hour)}
		for _, d := range analysis.Weekdays {
			row = append(row, strconv.Itoa(h[d][hour]))
		}
		result.results = append(result.results, row)
	}
	result.summary = printer.Sprintf("%d plays %s", len(s.Rows), s.describeRange())
	return
}

type PlaysAnalyzer struct {
	Width float64
}

func (PlaysAnalyzer) GetName() string {
	return "Percent played"
}

func (p PlaysAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	bins, err := analysis.PercentPlayedHistogram(s.Rows, p.Width)
	if err != nil {
		return
	}

	result.results = [][]string{{"Percent played", "Short", "Full"}}
	short := 0
	for _, b := range bins {
		result.results = append(result.results, []string{
			fmt.Sprintf("%g-%g", b.Low, b.High), strconv.Itoa(b.Short), strconv.Itoa(b.Full)})
		short += b.Short
	}
	result.summary = printer.Sprintf("%d plays, %d short %s", len(s.Rows), short, s.describeRange())
	return
}

type StreamgraphAnalyzer struct{}

func (StreamgraphAnalyzer) GetName() string {
	return "Streamgraph"
}

func (StreamgraphAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	points := analysis.Streamgraph(s.Rows)

	// Only genres that were played get a column.
	var columns []genre.BroadGenre
	for _, g := range genre.All() {
		for _, p := range points {
			if p.Minutes[g] > 0 {
				columns = append(columns, g)
				break
			}
		}
	}

	header := []string{"Month"}
	for _, g := range columns {
		header = append(header, g.String())
	}
	result.results = [][]string{header}
	for _, p := range points {
		row := []string{p.Month}
		for _, g := range columns {
			row = append(row, formatMinutes(p.Minutes[g]))
		}
		result.results = append(result.results, row)
	}
	result.summary = printer.Sprintf("%d months %s", len(points), s.describeRange())
	return
}
