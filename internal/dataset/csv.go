package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// row is one CSV record addressed by column name.
type row struct {
	cols   map[string]int
	fields []string
}

func (r row) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// integer reads an integer column. Blank or absent columns read as zero; values
// written as floats ("200000.0") are accepted.
func (r row) integer(col string) (int64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("column %s: invalid integer %q", col, s)
	}
	return int64(f), nil
}

func (r row) number(col string) (float64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", col, s)
	}
	return f, nil
}

// scanTable calls fn for every record after the header. Records fn rejects
// are logged and skipped; a missing required column fails the whole table.
func scanTable(r io.Reader, table string, required []string, logger *slog.Logger, fn func(row) error) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty file", table)
		}
		return fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.TrimSpace(h)] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return fmt.Errorf("%s: missing column %q", table, c)
		}
	}

	skipped := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pErr *csv.ParseError
			if errors.As(err, &pErr) {
				logger.Warn("skipping unreadable row", "table", table, "line", pErr.Line, "error", err)
				skipped++
				continue
			}
			return fmt.Errorf("%s: %w", table, err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(row{cols: cols, fields: fields}); err != nil {
			logger.Warn("skipping row", "table", table, "line", line, "error", err)
			skipped++
		}
	}
	if skipped > 0 {
		logger.Info("rows skipped", "table", table, "count", skipped)
	}
	return nil
}

var endTimeLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05", time.RFC3339}

// ParseEndTime reads an event end timestamp in loc. Timestamps carrying
// their own offset keep it.
func ParseEndTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid end time %q", s)
}

func ReadStreamingHistory(r io.Reader, loc *time.Location, logger *slog.Logger) ([]StreamingEvent, error) {
	var out []StreamingEvent
	err := scanTable(r, StreamingHistoryTable, []string{"endTime", "artistName", "trackName", "msPlayed"}, logger, func(rec row) error {
		end, err := ParseEndTime(rec.str("endTime"), loc)
		if err != nil {
			return err
		}
		ms, err := rec.integer("msPlayed")
		if err != nil {
			return err
		}
		if ms < 0 {
			return fmt.Errorf("negative msPlayed %d", ms)
		}
		out = append(out, StreamingEvent{
			EndTime:    end,
			ArtistName: rec.str("artistName"),
			TrackName:  rec.str("trackName"),
			MsPlayed:   ms,
			DayOfWeek:  rec.str("day_of_week"),
		})
		return nil
	})
	return out, err
}

func ReadTrackFeatures(r io.Reader, logger *slog.Logger) ([]TrackFeatures, error) {
	var out []TrackFeatures
	err := scanTable(r, TrackFeaturesTable, []string{"trackName", "artistName", "duration_ms"}, logger, func(rec row) error {
		t := TrackFeatures{
			TrackName:  rec.str("trackName"),
			ArtistName: rec.str("artistName"),
		}
		var err error
		if t.DurationMs, err = rec.integer("duration_ms"); err != nil {
			return err
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"danceability", &t.Danceability},
			{"energy", &t.Energy},
			{"valence", &t.Valence},
			{"instrumentalness", &t.Instrumentalness},
			{"speechiness", &t.Speechiness},
			{"acousticness", &t.Acousticness},
		} {
			if *f.dst, err = rec.number(f.col); err != nil {
				return err
			}
		}
		if t.Popularity, err = rec.integer("popularity"); err != nil {
			return err
		}
		if t.NListens, err = rec.integer("n_listens"); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func ReadArtists(r io.Reader, logger *slog.Logger) ([]Artist, error) {
	var out []Artist
	err := scanTable(r, ArtistsTable, []string{"artistName"}, logger, func(rec row) error {
		a := Artist{
			Name:   rec.str("artistName"),
			Genres: rec.str("genres"),
		}
		var err error
		if a.Popularity, err = rec.integer("popularity"); err != nil {
			return err
		}
		if a.NListens, err = rec.integer("n_listens"); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

func ReadGenres(r io.Reader, logger *slog.Logger) ([]Genre, error) {
	var out []Genre
	err := scanTable(r, GenresTable, []string{"genre"}, logger, func(rec row) error {
		n, err := rec.integer("n_listens")
		if err != nil {
			return err
		}
		out = append(out, Genre{Name: rec.str("genre"), NListens: n})
		return nil
	})
	return out, err
}
