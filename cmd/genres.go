package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

var genresUnmatched bool
var genresCmd = &cobra.Command{
	Use:   "genres [from (optional)] [to (optional)]",
	Short: "Counts artists, plays and minutes per broad genre",
	Long: `Lists every broad genre with the number of artists classified into it and the
plays and minutes listened within the date range. With --unmatched, lists the
specific genres in the genre table that no keyword rule claims instead.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var a Analyser = GenresAnalyzer{}
		if genresUnmatched {
			a = UnmatchedGenresAnalyzer{}
		}
		if err := runAnalyser(cmd.OutOrStdout(), a, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)

	genresCmd.Flags().BoolVar(&genresUnmatched, "unmatched", false, "list specific genres that fall into Other")
}

type GenresAnalyzer struct{}

func (GenresAnalyzer) GetName() string {
	return "Genres"
}

func (GenresAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	totals := analysis.GenreTotals(s.Artists, s.Rows)

	result.results = [][]string{{"Genre", "Artists", "Plays", "Minutes"}}
	plays := 0
	for _, t := range totals {
		result.results = append(result.results, []string{
			t.Genre.String(), strconv.Itoa(t.Artists), strconv.Itoa(t.Plays), formatMinutes(t.Minutes)})
		plays += t.Plays
	}
	result.summary = printer.Sprintf("Classified %d artists; %d plays %s", len(s.Artists), plays, s.describeRange())
	return
}

type UnmatchedGenresAnalyzer struct{}

func (UnmatchedGenresAnalyzer) GetName() string {
	return "Unmatched genres"
}

func (UnmatchedGenresAnalyzer) GetResults(s *Session) (result Analysis, err error) {
	listens := make(map[string]int64, len(s.Tables.Genres))
	names := make([]string, 0, len(s.Tables.Genres))
	for _, g := range s.Tables.Genres {
		listens[g.Name] += g.NListens
		names = append(names, g.Name)
	}
	unmatched := genre.Unmatched(names, s.Rules)

	result.results = [][]string{{"Genre", "Listens"}}
	for _, name := range unmatched {
		result.results = append(result.results, []string{name, strconv.FormatInt(listens[name], 10)})
	}
	result.summary = printer.Sprintf("%d of %d specific genres match no rule", len(unmatched), len(listens))
	return
}
