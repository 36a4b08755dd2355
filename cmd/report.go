package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/spotify-explorer/internal/analysis"
)

var reportMonths int
var reportTop int
var reportBrush brushOptions

var reportCmd = &cobra.Command{
	Use:   "report [from (optional)] [to (optional)]",
	Short: "Generates a comprehensive listening report",
	Long: `Runs every view over the filtered plays and writes them as one YAML document:
genre totals, top artists, genre drift between the historical and current
periods, listening patterns, weekday and hour totals, percent played, the
monthly streamgraph, audio feature distributions and popularity.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(cmd.OutOrStdout(), args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportMonths, "months", 18, "Length of the current period in months, ending at the latest play")
	reportCmd.Flags().IntVar(&reportTop, "top", 30, "Number of top artists to include")
	reportBrush.addFlags(reportCmd)
}

func reportOptions() (analysis.ReportOptions, error) {
	b, err := reportBrush.brush()
	if err != nil {
		return analysis.ReportOptions{}, err
	}
	return analysis.ReportOptions{
		Now:           time.Now(),
		CurrentMonths: reportMonths,
		TopArtists:    reportTop,
		Brush:         b,
	}, nil
}

func runReport(out io.Writer, args []string) error {
	opts, err := reportOptions()
	if err != nil {
		return err
	}
	s, err := newSession(args)
	if err != nil {
		return err
	}

	artists, tracks := s.catalog()
	report, err := analysis.GenerateReport(s.Rows, artists, tracks, opts)
	if err != nil {
		return fmt.Errorf("analyzing data: %w", err)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	err = encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
