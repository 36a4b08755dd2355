package analysis

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultShortPlayCutoff is the play length, in milliseconds, below which a
// play counts as short.
const DefaultShortPlayCutoff int64 = 20000

// MaxPercentPlayed caps percent played. Replays within one logged event can
// legitimately pass 100%; anything past 110% is clipped.
const MaxPercentPlayed = 110.0

// DataQualityError marks a row whose metrics can't be computed.
type DataQualityError struct {
	Track  string
	Artist string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("%s - %s: %s", e.Track, e.Artist, e.Reason)
}

// Metrics are the per-row derived quantities.
type Metrics struct {
	PercentPlayed float64
	MinutesPlayed float64
	Hour          int
	Weekday       time.Weekday
	ShortPlay     bool
}

type DerivedRow struct {
	Row
	Metrics
}

// PercentPlayed returns msPlayed as a percentage of durationMs, clamped to
// [0, MaxPercentPlayed].
func PercentPlayed(msPlayed, durationMs int64) (float64, error) {
	if durationMs <= 0 {
		return 0, fmt.Errorf("track duration is %d ms", durationMs)
	}
	p := float64(msPlayed) * 100 / float64(durationMs)
	if p < 0 {
		return 0, nil
	}
	if p > MaxPercentPlayed {
		return MaxPercentPlayed, nil
	}
	return p, nil
}

// MinutesPlayed converts milliseconds to minutes.
func MinutesPlayed(msPlayed int64) float64 {
	return float64(msPlayed) / 1000 / 60
}

// IsShortPlay reports whether a play ended before cutoffMs.
func IsShortPlay(msPlayed, cutoffMs int64) bool {
	return msPlayed < cutoffMs
}

// Derive computes the row's metrics. cutoffMs only labels short plays; it
// never removes rows.
func Derive(r Row, cutoffMs int64) (Metrics, error) {
	pct, err := PercentPlayed(r.Event.MsPlayed, r.Track.DurationMs)
	if err != nil {
		return Metrics{}, &DataQualityError{Track: r.Event.TrackName, Artist: r.Event.ArtistName, Reason: err.Error()}
	}
	return Metrics{
		PercentPlayed: pct,
		MinutesPlayed: MinutesPlayed(r.Event.MsPlayed),
		Hour:          r.Event.EndTime.Hour(),
		Weekday:       r.Event.EndTime.Weekday(),
		ShortPlay:     IsShortPlay(r.Event.MsPlayed, cutoffMs),
	}, nil
}

// DeriveAll derives every row, excluding and logging rows with data quality
// problems. It returns the kept rows and the number excluded.
func DeriveAll(rows []Row, cutoffMs int64, logger *slog.Logger) ([]DerivedRow, int) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := make([]DerivedRow, 0, len(rows))
	rejected := 0
	for _, r := range rows {
		m, err := Derive(r, cutoffMs)
		if err != nil {
			logger.Warn("excluding row", "reason", err)
			rejected++
			continue
		}
		out = append(out, DerivedRow{Row: r, Metrics: m})
	}
	return out, rejected
}
