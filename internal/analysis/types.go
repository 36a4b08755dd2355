package analysis

// Report is the top-level structure for the listening report.
type Report struct {
	Metadata          ProfileMetadata           `yaml:"profile_metadata"`
	Genres            []GenreTotal              `yaml:"genres"`
	TopArtists        []ArtistStat              `yaml:"top_artists"`
	GenreDrift        GenreDrift                `yaml:"genre_drift"`
	ListeningPatterns ListeningPatterns         `yaml:"listening_patterns"`
	Weekdays          []WeekdayTotal            `yaml:"weekdays"`
	Heatmap           Heatmap                   `yaml:"hour_weekday_heatmap"`
	PercentPlayed     []PlayBin                 `yaml:"percent_played"`
	Streamgraph       []StreamPoint             `yaml:"streamgraph"`
	Features          map[string][]Distribution `yaml:"features"`
	Selection         []GenreShare              `yaml:"selection,omitempty"`
	Popularity        []PopularityPoint         `yaml:"popularity"`
}

type ProfileMetadata struct {
	GeneratedDate    string  `yaml:"generated_date"`
	TotalPlays       int     `yaml:"total_plays"`
	TotalMinutes     float64 `yaml:"total_minutes"`
	TotalArtists     int     `yaml:"total_artists"`
	ListeningStyle   string  `yaml:"listening_style"`
	CurrentPeriod    string  `yaml:"current_period"`
	HistoricalPeriod string  `yaml:"historical_period"`
}

type ArtistStat struct {
	Name                 string  `yaml:"name"`
	Genre                string  `yaml:"genre"`
	Plays                int     `yaml:"plays"`
	Minutes              float64 `yaml:"minutes"`
	InHistoricalBaseline bool    `yaml:"in_historical_baseline,omitempty"`
	PeakYears            string  `yaml:"peak_years,omitempty"`
}

type GenreDrift struct {
	DeclinedGenres []DriftGenre `yaml:"declined_genres"`
	EmergedGenres  []DriftGenre `yaml:"emerged_genres"`
}

type DriftGenre struct {
	Genre           string  `yaml:"genre"`
	HistoricalShare float64 `yaml:"historical_share"`
	CurrentShare    float64 `yaml:"current_share"`
}

type ListeningPatterns struct {
	ShortPlayRatio           float64 `yaml:"short_play_ratio"`
	PercentPlayedMedian      float64 `yaml:"percent_played_median"`
	PercentPlayedAverage     float64 `yaml:"percent_played_average"`
	NewArtistsInLast12Months int     `yaml:"new_artists_in_last_12_months"`
	RepeatListeningRatio     float64 `yaml:"repeat_listening_ratio"`
}
