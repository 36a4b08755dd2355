package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
)

// ReportOptions controls GenerateReport. Zero values pick the defaults.
type ReportOptions struct {
	// Now stamps the report. Defaults to time.Now().
	Now time.Time
	// CurrentMonths is the length of the current period, ending at the latest
	// play. Defaults to 18.
	CurrentMonths int
	// TopArtists caps the artist list. Defaults to 30.
	TopArtists int
	// Brush, when active, adds the genre mix of the selected tracks.
	Brush Brush
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.CurrentMonths <= 0 {
		o.CurrentMonths = 18
	}
	if o.TopArtists <= 0 {
		o.TopArtists = 30
	}
	if o.Brush.X == "" {
		o.Brush.X = "energy"
	}
	if o.Brush.Y == "" {
		o.Brush.Y = "danceability"
	}
	return o
}

// GenerateReport builds every view over the filtered rows into one document.
// artists and tracks are the classified catalog, narrowed to the same genres
// as rows.
func GenerateReport(rows []DerivedRow, artists []Artist, tracks []dataset.TrackFeatures, opts ReportOptions) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{}

	// 1. Determine periods
	first, latest := playSpanOf(rows)
	currentEnd := latest
	currentStart := currentEnd.AddDate(0, -opts.CurrentMonths, 0)
	var current, historical []DerivedRow
	for _, r := range rows {
		if r.Event.EndTime.Before(currentStart) {
			historical = append(historical, r)
		} else {
			current = append(current, r)
		}
	}

	// 2. Metadata
	report.Metadata = ProfileMetadata{
		GeneratedDate: opts.Now.Format("2006-01-02"),
		TotalPlays:    len(rows),
		TotalMinutes:  round(totalMinutes(rows), 1),
		TotalArtists:  len(distinctArtists(rows)),
	}
	if len(rows) > 0 {
		report.Metadata.CurrentPeriod = fmt.Sprintf("%s to %s", maxTime(first, currentStart).Format("2006-01-02"), currentEnd.Format("2006-01-02"))
		if len(historical) > 0 {
			report.Metadata.HistoricalPeriod = fmt.Sprintf("%s to %s", first.Format("2006-01-02"), currentStart.Format("2006-01-02"))
		}
	}

	// 3. Genres and artists
	report.Genres = GenreTotals(artists, rows)
	report.TopArtists = topArtists(rows, historical, opts.TopArtists)

	// 4. Genre drift
	declined, emerged := calculateDrift(genreShares(historical), genreShares(current))
	report.GenreDrift = GenreDrift{DeclinedGenres: declined, EmergedGenres: emerged}

	// 5. Listening patterns
	report.ListeningPatterns = calculateListeningPatterns(rows, latest)
	if report.ListeningPatterns.PercentPlayedMedian >= 80 {
		report.Metadata.ListeningStyle = "full-listen"
	} else {
		report.Metadata.ListeningStyle = "sampling"
	}

	// 6. Chart views
	report.Weekdays = WeekdayTotals(rows)
	report.Heatmap = HourWeekdayHeatmap(rows)
	bins, err := PercentPlayedHistogram(rows, 10)
	if err != nil {
		return nil, err
	}
	report.PercentPlayed = bins
	report.Streamgraph = Streamgraph(rows)

	report.Features = make(map[string][]Distribution, len(dataset.FeatureNames))
	for _, f := range dataset.FeatureNames {
		d, err := FeatureDistribution(rows, f)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f, err)
		}
		report.Features[f] = d
	}

	if opts.Brush.Active() {
		points, err := Scatter(tracks, artists, opts.Brush)
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		report.Selection = SelectionMix(points)
	}
	report.Popularity = Popularity(tracks, artists)

	return report, nil
}

// -- Helpers --

func playSpanOf(rows []DerivedRow) (first, latest time.Time) {
	for i, r := range rows {
		t := r.Event.EndTime
		if i == 0 || t.Before(first) {
			first = t
		}
		if i == 0 || t.After(latest) {
			latest = t
		}
	}
	return first, latest
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func totalMinutes(rows []DerivedRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.MinutesPlayed
	}
	return sum
}

func distinctArtists(rows []DerivedRow) map[string]bool {
	seen := make(map[string]bool)
	for _, r := range rows {
		seen[r.Event.ArtistName] = true
	}
	return seen
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func topArtists(rows, historical []DerivedRow, limit int) []ArtistStat {
	byName := make(map[string]*ArtistStat)
	years := make(map[string]map[int]int)
	for _, r := range rows {
		a, ok := byName[r.Event.ArtistName]
		if !ok {
			a = &ArtistStat{Name: r.Event.ArtistName, Genre: r.Artist.BroadGenre.String()}
			byName[r.Event.ArtistName] = a
			years[r.Event.ArtistName] = make(map[int]int)
		}
		a.Plays++
		a.Minutes += r.MinutesPlayed
		years[r.Event.ArtistName][r.Event.EndTime.Year()]++
	}
	inHistory := distinctArtists(historical)

	artists := make([]ArtistStat, 0, len(byName))
	for name, a := range byName {
		a.Minutes = round(a.Minutes, 1)
		a.InHistoricalBaseline = inHistory[name]
		a.PeakYears = peakYears(years[name])
		artists = append(artists, *a)
	}
	sort.Slice(artists, func(i, j int) bool {
		if artists[i].Plays != artists[j].Plays {
			return artists[i].Plays > artists[j].Plays
		}
		return artists[i].Name < artists[j].Name
	})
	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists
}

// peakYears returns the shortest run of consecutive listening years that
// holds at least 80% of the plays.
func peakYears(byYear map[int]int) string {
	type yearCount struct {
		year  int
		count int
	}
	var counts []yearCount
	var total int
	for y, c := range byYear {
		counts = append(counts, yearCount{y, c})
		total += c
	}
	if total == 0 {
		return ""
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].year < counts[j].year })

	target := int(float64(total) * 0.8)

	bestStart, bestEnd := -1, -1
	minLen := len(counts) + 1
	for i := 0; i < len(counts); i++ {
		currentSum := 0
		for j := i; j < len(counts); j++ {
			currentSum += counts[j].count
			if currentSum >= target {
				if length := j - i + 1; length < minLen {
					minLen = length
					bestStart, bestEnd = i, j
				}
				break
			}
		}
	}

	if bestStart == -1 {
		return ""
	}
	if bestStart == bestEnd {
		return fmt.Sprint(counts[bestStart].year)
	}
	return fmt.Sprintf("%d-%d", counts[bestStart].year, counts[bestEnd].year)
}

// genreShares returns each broad genre's fraction of minutes played.
func genreShares(rows []DerivedRow) map[genre.BroadGenre]float64 {
	shares := make(map[genre.BroadGenre]float64)
	var total float64
	for _, r := range rows {
		shares[r.Artist.BroadGenre] += r.MinutesPlayed
		total += r.MinutesPlayed
	}
	if total == 0 {
		return map[genre.BroadGenre]float64{}
	}
	for g := range shares {
		shares[g] = round(shares[g]/total, 2)
	}
	return shares
}

// calculateDrift compares genre shares between the historical and current
// periods. A genre declined if its share shrank and emerged if it grew. Both
// lists are ordered by the size of the change, largest first.
func calculateDrift(hist, curr map[genre.BroadGenre]float64) ([]DriftGenre, []DriftGenre) {
	if len(hist) == 0 || len(curr) == 0 {
		return nil, nil
	}
	var declined, emerged []DriftGenre
	for _, g := range genre.All() {
		h, c := hist[g], curr[g]
		d := DriftGenre{Genre: g.String(), HistoricalShare: h, CurrentShare: c}
		switch {
		case c < h:
			declined = append(declined, d)
		case c > h:
			emerged = append(emerged, d)
		}
	}
	sort.SliceStable(declined, func(i, j int) bool {
		return declined[i].HistoricalShare-declined[i].CurrentShare > declined[j].HistoricalShare-declined[j].CurrentShare
	})
	sort.SliceStable(emerged, func(i, j int) bool {
		return emerged[i].CurrentShare-emerged[i].HistoricalShare > emerged[j].CurrentShare-emerged[j].HistoricalShare
	})
	return declined, emerged
}

func calculateListeningPatterns(rows []DerivedRow, latest time.Time) ListeningPatterns {
	lp := ListeningPatterns{}
	if len(rows) == 0 {
		return lp
	}

	var short int
	var sum float64
	percents := make([]float64, 0, len(rows))
	tracks := make(map[trackKey]bool)
	firstPlay := make(map[string]time.Time)
	for _, r := range rows {
		if r.ShortPlay {
			short++
		}
		sum += r.PercentPlayed
		percents = append(percents, r.PercentPlayed)
		tracks[trackKey{r.Event.TrackName, r.Event.ArtistName}] = true
		if f, ok := firstPlay[r.Event.ArtistName]; !ok || r.Event.EndTime.Before(f) {
			firstPlay[r.Event.ArtistName] = r.Event.EndTime
		}
	}

	lp.ShortPlayRatio = round(float64(short)/float64(len(rows)), 2)
	lp.PercentPlayedAverage = round(sum/float64(len(rows)), 1)
	sort.Float64s(percents)
	lp.PercentPlayedMedian = round(quantile(percents, 0.5), 1)

	// New artists: first play within the 12 months before the latest play.
	newArtistsStart := latest.AddDate(-1, 0, 0)
	for _, f := range firstPlay {
		if !f.Before(newArtistsStart) {
			lp.NewArtistsInLast12Months++
		}
	}

	// (plays - distinct tracks) / plays
	lp.RepeatListeningRatio = round(float64(len(rows)-len(tracks))/float64(len(rows)), 2)
	return lp
}
