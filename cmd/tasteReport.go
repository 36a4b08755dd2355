package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
)

var tasteReportCmd = &cobra.Command{
	Use:   "taste [from (optional)] [to (optional)]",
	Short: "Summarizes the listening report as a table",
	Long:  `Generates the same report as 'report' and prints the current top artists and genre drift in a readable form.`,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := reportOptions()
		if err == nil {
			err = runAnalyser(cmd.OutOrStdout(), &TasteReportAnalyzer{Options: opts, Limit: 10}, args)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tasteReportCmd)

	tasteReportCmd.Flags().IntVar(&reportMonths, "months", 18, "Length of the current period in months, ending at the latest play")
}

type TasteReportAnalyzer struct {
	Options analysis.ReportOptions
	// Limit caps the artist table.
	Limit int
}

func (t *TasteReportAnalyzer) GetName() string {
	return "Listening profile"
}

func (t *TasteReportAnalyzer) GetResults(s *Session) (Analysis, error) {
	var a Analysis
	artists, tracks := s.catalog()
	report, err := analysis.GenerateReport(s.Rows, artists, tracks, t.Options)
	if err != nil {
		return a, fmt.Errorf("generating report: %w", err)
	}

	a.results = [][]string{{"Artist", "Genre", "Plays", "Minutes", "Peak years"}}
	for i, artist := range report.TopArtists {
		if t.Limit > 0 && i >= t.Limit {
			break
		}
		a.results = append(a.results, []string{
			artist.Name, artist.Genre, strconv.Itoa(artist.Plays), formatMinutes(artist.Minutes), artist.PeakYears})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis date: %s\n", report.Metadata.GeneratedDate)
	fmt.Fprintf(&sb, "Current period: %s\n", report.Metadata.CurrentPeriod)
	if report.Metadata.HistoricalPeriod != "" {
		fmt.Fprintf(&sb, "Historical period: %s\n", report.Metadata.HistoricalPeriod)
	}
	sb.WriteString(printer.Sprintf("%d plays, %s minutes, %d artists, %s listener\n",
		report.Metadata.TotalPlays, formatMinutes(report.Metadata.TotalMinutes),
		report.Metadata.TotalArtists, report.Metadata.ListeningStyle))

	if len(report.GenreDrift.EmergedGenres) > 0 {
		fmt.Fprintf(&sb, "New interests: %s\n", driftNames(report.GenreDrift.EmergedGenres))
	}
	if len(report.GenreDrift.DeclinedGenres) > 0 {
		fmt.Fprintf(&sb, "Fading interests: %s\n", driftNames(report.GenreDrift.DeclinedGenres))
	}

	a.summary = strings.TrimSuffix(sb.String(), "\n")
	return a, nil
}

func driftNames(drift []analysis.DriftGenre) string {
	var names []string
	for _, d := range drift {
		names = append(names, fmt.Sprintf("%s (%.0f%% -> %.0f%%)", d.Genre, d.HistoricalShare*100, d.CurrentShare*100))
	}
	return strings.Join(names, ", ")
}
