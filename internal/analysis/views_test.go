package analysis

import (
	"testing"
	"time"

	"github.com/ademuri/spotify-explorer/internal/genre"
)

func TestWeekdayTotals(t *testing.T) {
	f := loadFixture(t)

	totals := WeekdayTotals(f.rows)
	if len(totals) != 7 {
		t.Fatalf("expected 7 weekdays, got %d", len(totals))
	}
	if totals[0].Weekday != time.Monday || totals[6].Weekday != time.Sunday {
		t.Errorf("expected Monday-first order, got %v..%v", totals[0].Weekday, totals[6].Weekday)
	}
	if totals[0].Day != "Monday" {
		t.Errorf("expected day name Monday, got %q", totals[0].Day)
	}
	if totals[0].Plays != 2 || !approx(totals[0].Minutes, 0.25+250000.0/60000) {
		t.Errorf("unexpected Monday total: %+v", totals[0])
	}
	if totals[4].Plays != 1 || totals[5].Plays != 1 || totals[6].Plays != 0 {
		t.Errorf("unexpected weekend totals: %+v", totals[4:])
	}

	// Saturday's Ghost Track event has no track features.
	saturday := 0
	for _, e := range f.tables.Events {
		if e.EndTime.Weekday() == time.Saturday {
			saturday++
		}
	}
	if saturday != 2 || totals[5].Plays != 1 {
		t.Errorf("expected 1 of 2 Saturday events counted, got %d of %d", totals[5].Plays, saturday)
	}
}

func TestHourWeekdayHeatmap(t *testing.T) {
	f := loadFixture(t)

	h := HourWeekdayHeatmap(f.rows)
	cells := []struct {
		day  time.Weekday
		hour int
	}{
		{time.Monday, 8},
		{time.Monday, 21},
		{time.Saturday, 13},
		{time.Friday, 23},
	}
	total := 0
	for _, row := range h {
		for _, n := range row {
			total += n
		}
	}
	if total != 4 {
		t.Errorf("expected 4 plays in heatmap, got %d", total)
	}
	for _, c := range cells {
		if h[c.day][c.hour] != 1 {
			t.Errorf("expected 1 play at %v %02d:00, got %d", c.day, c.hour, h[c.day][c.hour])
		}
	}
}

func TestPercentPlayedHistogram(t *testing.T) {
	f := loadFixture(t)

	bins, err := PercentPlayedHistogram(f.rows, 10)
	if err != nil {
		t.Fatalf("PercentPlayedHistogram() error: %v", err)
	}
	if len(bins) != 11 {
		t.Fatalf("expected 11 bins, got %d", len(bins))
	}
	if bins[0].Short != 2 || bins[0].Full != 1 {
		t.Errorf("unexpected first bin: %+v", bins[0])
	}
	// 110% lands in the last, right-closed bin.
	last := bins[len(bins)-1]
	if last.Full != 1 || last.Low != 100 || last.High != 110 {
		t.Errorf("unexpected last bin: %+v", last)
	}

	if _, err := PercentPlayedHistogram(f.rows, 0); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestStreamgraph(t *testing.T) {
	f := loadFixture(t)

	points := Streamgraph(f.rows)
	if len(points) != 2 {
		t.Fatalf("expected 2 months, got %d", len(points))
	}
	if points[0].Month != "2020-03" || points[1].Month != "2020-04" {
		t.Errorf("unexpected months: %s, %s", points[0].Month, points[1].Month)
	}
	if !approx(points[0].Minutes[genre.TieGenre], 0.25) {
		t.Errorf("unexpected Tie Genre minutes: %v", points[0].Minutes[genre.TieGenre])
	}
	if !approx(points[0].Minutes[genre.Electronica], (250000.0+19999.0)/60000) {
		t.Errorf("unexpected Electronica minutes: %v", points[0].Minutes[genre.Electronica])
	}
	if _, ok := points[1].Minutes[genre.Indie]; !ok || len(points[1].Minutes) != 1 {
		t.Errorf("expected only Indie in April, got %v", points[1].Minutes)
	}
}

func TestFeatureDistribution(t *testing.T) {
	f := loadFixture(t)

	dists, err := FeatureDistribution(f.rows, "energy")
	if err != nil {
		t.Fatalf("FeatureDistribution() error: %v", err)
	}
	if len(dists) != 3 {
		t.Fatalf("expected 3 genres, got %+v", dists)
	}
	order := []genre.BroadGenre{genre.Electronica, genre.Indie, genre.TieGenre}
	for i, d := range dists {
		if d.Genre != order[i] {
			t.Errorf("distribution %d: expected %s, got %s", i, order[i], d.Genre)
		}
	}

	e := dists[0]
	if e.Count != 2 || e.Min != 0.80 || e.Max != 0.85 || !approx(e.Median, 0.825) || !approx(e.Mean, 0.825) {
		t.Errorf("unexpected Electronica distribution: %+v", e)
	}
	if dists[1].Count != 1 || dists[1].Q1 != 0.20 || dists[1].Q3 != 0.20 {
		t.Errorf("single value should collapse every quantile: %+v", dists[1])
	}

	if _, err := FeatureDistribution(f.rows, "loudness"); err == nil {
		t.Error("expected error for unknown feature")
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.q); !approx(got, tt.want) {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestScatterAndSelectionMix(t *testing.T) {
	f := loadFixture(t)
	brush := Brush{X: "energy", Y: "danceability", XRange: &Range{Min: 0.5, Max: 1}}

	points, err := Scatter(f.tables.Tracks, f.artists, brush)
	if err != nil {
		t.Fatalf("Scatter() error: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("expected every track plotted, got %d", len(points))
	}
	selected := map[string]bool{}
	for _, p := range points {
		if p.Selected {
			selected[p.Track] = true
		}
	}
	for _, name := range []string{"Latch", "Omen", "Static"} {
		if !selected[name] {
			t.Errorf("expected %s to be selected", name)
		}
	}
	if len(selected) != 3 {
		t.Errorf("expected 3 selected tracks, got %v", selected)
	}
	if points[1].X != 0.80 || points[1].Y != 0.70 || points[1].Genre != genre.Electronica {
		t.Errorf("unexpected Latch point: %+v", points[1])
	}

	mix := SelectionMix(points)
	if len(mix) != 2 {
		t.Fatalf("expected 2 genres in mix, got %+v", mix)
	}
	if mix[0].Genre != genre.Electronica || mix[0].Tracks != 2 || mix[0].Listens != 2 || !approx(mix[0].Fraction, 2.0/3) {
		t.Errorf("unexpected Electronica share: %+v", mix[0])
	}
	if mix[1].Genre != genre.NoGenre || mix[1].Tracks != 1 {
		t.Errorf("unexpected No Genre share: %+v", mix[1])
	}

	if _, err := Scatter(f.tables.Tracks, f.artists, Brush{X: "tempo", Y: "energy"}); err == nil {
		t.Error("expected error for unknown feature")
	}
}

func TestPopularity(t *testing.T) {
	f := loadFixture(t)

	points := Popularity(f.tables.Tracks, f.artists)
	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}
	latch := points[1]
	if latch.Track != "Latch" || latch.TrackPopularity != 80 || latch.ArtistPopularity != 78 {
		t.Errorf("unexpected Latch point: %+v", latch)
	}
}

func TestGenreTotals(t *testing.T) {
	f := loadFixture(t)

	totals := GenreTotals(f.artists, f.rows)
	if len(totals) != len(genre.All()) {
		t.Fatalf("expected %d totals, got %d", len(genre.All()), len(totals))
	}
	byGenre := map[genre.BroadGenre]GenreTotal{}
	for _, tot := range totals {
		byGenre[tot.Genre] = tot
	}
	if got := byGenre[genre.Electronica]; got.Artists != 1 || got.Plays != 2 {
		t.Errorf("unexpected Electronica total: %+v", got)
	}
	if got := byGenre[genre.NoGenre]; got.Artists != 2 || got.Plays != 0 {
		t.Errorf("unexpected No Genre total: %+v", got)
	}
	if got := byGenre[genre.Jazz]; got.Artists != 0 || got.Plays != 0 {
		t.Errorf("unexpected Jazz total: %+v", got)
	}
}
