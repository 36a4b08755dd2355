package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/ademuri/spotify-explorer/internal/dataset"
)

func TestPercentPlayed(t *testing.T) {
	tests := []struct {
		name       string
		msPlayed   int64
		durationMs int64
		want       float64
	}{
		{"partial", 15000, 200000, 7.5},
		{"complete", 200000, 200000, 100},
		{"replayed", 220000, 200000, 110},
		{"clipped", 250000, 200000, 110},
		{"nothing", 0, 200000, 0},
		{"negative", -5, 200000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PercentPlayed(tt.msPlayed, tt.durationMs)
			if err != nil {
				t.Fatalf("PercentPlayed() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PercentPlayed(%d, %d) = %v, want %v", tt.msPlayed, tt.durationMs, got, tt.want)
			}
		})
	}
}

func TestPercentPlayedZeroDuration(t *testing.T) {
	if _, err := PercentPlayed(1000, 0); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := PercentPlayed(1000, -1); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestIsShortPlay(t *testing.T) {
	if !IsShortPlay(19999, DefaultShortPlayCutoff) {
		t.Error("19999 ms should be a short play")
	}
	if IsShortPlay(20000, DefaultShortPlayCutoff) {
		t.Error("20000 ms should not be a short play")
	}
	if IsShortPlay(5000, 0) {
		t.Error("a zero cutoff marks nothing as short")
	}
}

func TestMinutesPlayed(t *testing.T) {
	if got := MinutesPlayed(90000); got != 1.5 {
		t.Errorf("MinutesPlayed(90000) = %v, want 1.5", got)
	}
}

func TestDerive(t *testing.T) {
	r := Row{
		Event: dataset.StreamingEvent{
			EndTime:  time.Date(2020, 3, 7, 13, 5, 0, 0, time.UTC),
			MsPlayed: 15000,
		},
		Track: dataset.TrackFeatures{DurationMs: 200000},
	}
	m, err := Derive(r, DefaultShortPlayCutoff)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	want := Metrics{PercentPlayed: 7.5, MinutesPlayed: 0.25, Hour: 13, Weekday: time.Saturday, ShortPlay: true}
	if m != want {
		t.Errorf("Derive() = %+v, want %+v", m, want)
	}
}

func TestDeriveDataQualityError(t *testing.T) {
	r := Row{
		Event: dataset.StreamingEvent{ArtistName: "Broken Band", TrackName: "Static", MsPlayed: 1000},
		Track: dataset.TrackFeatures{DurationMs: 0},
	}
	_, err := Derive(r, DefaultShortPlayCutoff)
	var dq *DataQualityError
	if !errors.As(err, &dq) {
		t.Fatalf("expected DataQualityError, got %v", err)
	}
	if dq.Track != "Static" || dq.Artist != "Broken Band" {
		t.Errorf("unexpected error fields: %+v", dq)
	}
}

func TestDeriveAll(t *testing.T) {
	f := loadFixture(t)

	rows, rejected := DeriveAll(f.joined, DefaultShortPlayCutoff, nil)
	if rejected != 1 {
		t.Errorf("expected 1 rejected row, got %d", rejected)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	if rows[0].PercentPlayed != 7.5 || !rows[0].ShortPlay {
		t.Errorf("unexpected metrics for first row: %+v", rows[0].Metrics)
	}
	if rows[1].PercentPlayed != MaxPercentPlayed || rows[1].ShortPlay {
		t.Errorf("unexpected metrics for Latch: %+v", rows[1].Metrics)
	}
	if !rows[2].ShortPlay {
		t.Error("Omen at 19999 ms should be a short play")
	}
	if rows[3].ShortPlay {
		t.Error("Holocene at 20000 ms should not be a short play")
	}
	if rows[3].Weekday != time.Friday || rows[3].Hour != 23 {
		t.Errorf("unexpected time fields for Holocene: %+v", rows[3].Metrics)
	}

	// The source rows are untouched.
	if f.joined[0].Event.MsPlayed != 15000 {
		t.Errorf("joined rows were modified: %+v", f.joined[0])
	}
}

func TestDeriveAllCutoffOnlyLabels(t *testing.T) {
	f := loadFixture(t)

	rows, _ := DeriveAll(f.joined, 300000, nil)
	if len(rows) != 4 {
		t.Fatalf("a high cutoff must not drop rows, got %d", len(rows))
	}
	for _, r := range rows {
		if !r.ShortPlay {
			t.Errorf("%s should be short with a 300000 ms cutoff", r.Event.TrackName)
		}
	}
}
