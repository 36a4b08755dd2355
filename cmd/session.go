package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/dataset"
	"github.com/ademuri/spotify-explorer/internal/genre"
	"github.com/ademuri/spotify-explorer/internal/store"
)

// sessionConfig is everything needed to load and filter one snapshot.
type sessionConfig struct {
	DataDir         string
	Source          string
	Timezone        string
	Rules           string
	Cache           string
	Strict          bool
	ShortPlayCutoff int64
	Genres          []string
	ExcludeShort    bool
}

func configFromViper() sessionConfig {
	return sessionConfig{
		DataDir:         viper.GetString("data_dir"),
		Source:          viper.GetString("source"),
		Timezone:        viper.GetString("timezone"),
		Rules:           viper.GetString("rules"),
		Cache:           viper.GetString("cache"),
		Strict:          viper.GetBool("strict"),
		ShortPlayCutoff: viper.GetInt64("short_play_cutoff"),
		Genres:          viper.GetStringSlice("genre"),
		ExcludeShort:    viper.GetBool("exclude_short"),
	}
}

// Session is one loaded, classified and derived snapshot. Nothing in it is
// modified after loading; filters produce new slices.
type Session struct {
	Tables   *dataset.Tables
	Artists  []analysis.Artist
	Rules    genre.Rules
	Stats    analysis.JoinStats
	Rejected int
	// Derived holds every row that survived the join and derivation.
	Derived []analysis.DerivedRow
	// Rows is Derived with Filter applied.
	Rows     []analysis.DerivedRow
	Filter   analysis.Filter
	Location *time.Location
	Logger   *slog.Logger
}

func newSession(args []string) (*Session, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return loadSession(configFromViper(), args, logger)
}

// loadSession reads the tables, classifies the artists, joins and derives.
// args are the optional [from] [to] date strings.
func loadSession(cfg sessionConfig, args []string, logger *slog.Logger) (*Session, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading time zone: %w", err)
		}
	}

	filter, err := buildFilter(cfg, args, loc)
	if err != nil {
		return nil, err
	}

	rules := genre.DefaultRules()
	if cfg.Rules != "" {
		rules, err = genre.LoadRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
	}

	tables, err := dataset.Load(dataset.Source{Dir: cfg.DataDir, Name: cfg.Source, Location: loc, Logger: logger})
	if err != nil {
		return nil, err
	}

	artists, err := classify(tables.Artists, rules, cfg, logger)
	if err != nil {
		return nil, err
	}

	joined, stats := analysis.Join(tables.Events, tables.Tracks, artists)
	logger.Info("joined tables",
		"events", stats.Events, "joined", stats.Joined,
		"missing_track", stats.MissingTrack, "missing_artist", stats.MissingArtist)

	derived, rejected := analysis.DeriveAll(joined, cfg.ShortPlayCutoff, logger)

	return &Session{
		Tables:   tables,
		Artists:  artists,
		Rules:    rules,
		Stats:    stats,
		Rejected: rejected,
		Derived:  derived,
		Rows:     filter.Apply(derived),
		Filter:   filter,
		Location: loc,
		Logger:   logger,
	}, nil
}

func classify(artists []dataset.Artist, rules genre.Rules, cfg sessionConfig, logger *slog.Logger) ([]analysis.Artist, error) {
	opts := []genre.Option{genre.WithStrict(cfg.Strict), genre.WithLogger(logger)}
	if cfg.Cache != "" {
		db, err := store.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("opening classification cache: %w", err)
		}
		defer db.Close()
		opts = append(opts, genre.WithCache(db))
	}

	c, err := genre.NewClassifier(rules, opts...)
	if err != nil {
		return nil, err
	}
	return analysis.ClassifyArtists(artists, c)
}

func buildFilter(cfg sessionConfig, args []string, loc *time.Location) (analysis.Filter, error) {
	f := analysis.Filter{ExcludeShort: cfg.ExcludeShort}
	for _, name := range cfg.Genres {
		g, err := genre.ParseBroadGenre(name)
		if err != nil {
			return f, err
		}
		f.Genres = append(f.Genres, g)
	}

	if len(args) > 0 {
		start, end, err := parseDateRangeFromArgs(args)
		if err != nil {
			return f, err
		}
		f.Start = inLocation(start, loc)
		f.End = inLocation(end, loc)
	}
	return f, nil
}

// undated returns the session's rows filtered by everything except the date
// range.
func (s *Session) undated() []analysis.DerivedRow {
	f := s.Filter
	f.Start, f.End = time.Time{}, time.Time{}
	return f.Apply(s.Derived)
}

// catalog returns the artists and tracks in the selected genres.
func (s *Session) catalog() ([]analysis.Artist, []dataset.TrackFeatures) {
	return s.Filter.Catalog(s.Artists, s.Tables.Tracks)
}

func (s *Session) describeRange() string {
	const dateFormat = "2006-01-02"
	switch {
	case s.Filter.Start.IsZero() && s.Filter.End.IsZero():
		return "all time"
	case s.Filter.End.IsZero():
		return "from " + s.Filter.Start.Format(dateFormat)
	case s.Filter.Start.IsZero():
		return "until " + s.Filter.End.Format(dateFormat)
	}
	return fmt.Sprintf("from %s to %s", s.Filter.Start.Format(dateFormat), s.Filter.End.Format(dateFormat))
}
