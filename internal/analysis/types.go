package analysis

import (
	"github.com/ademuri/streaming-history/internal/calendar"
	"github.com/ademuri/streaming-history/internal/lineup"
)

// Report is the top-level structure for a listening-history report.
type Report struct {
	Metadata   ReportMetadata    `yaml:"metadata" json:"metadata"`
	Summary    Summary           `yaml:"summary" json:"summary"`
	TopArtists TopArtists        `yaml:"top_artists" json:"top_artists"`
	TopTracks  []TrackAggregate  `yaml:"top_tracks" json:"top_tracks"`
	Months     []PeriodAggregate `yaml:"months" json:"months"`
	Profile    *ArtistProfile    `yaml:"artist_profile,omitempty" json:"artist_profile,omitempty"`
	Year       *YearView         `yaml:"year,omitempty" json:"year,omitempty"`
	Schedule   []lineup.Slot     `yaml:"lineup_schedule,omitempty" json:"lineup_schedule,omitempty"`
	Heatmap    *calendar.Grid    `yaml:"heatmap,omitempty" json:"heatmap,omitempty"`

	// Notices names the views that had no data for the selection.
	Notices map[string]string `yaml:"notices,omitempty" json:"notices,omitempty"`
}

type ReportMetadata struct {
	GeneratedDate string  `yaml:"generated_date" json:"generated_date"`
	Session       string  `yaml:"session" json:"session"`
	Mode          string  `yaml:"mode" json:"mode"`
	Files         int     `yaml:"files" json:"files"`
	Records       int     `yaml:"records" json:"records"`
	DateRange     string  `yaml:"date_range" json:"date_range"`
	MinMinutes    float64 `yaml:"min_minutes" json:"min_minutes"`
}

// ArtistAggregate is the summed listening of one artist.
type ArtistAggregate struct {
	ArtistName   string  `yaml:"artist" json:"artist"`
	TotalMinutes float64 `yaml:"total_minutes" json:"total_minutes"`
	Listens      int     `yaml:"listens" json:"listens"`
	Rank         int     `yaml:"rank" json:"rank"`

	totalMs int64
}

// TrackAggregate is the summed listening of one (artist, track) pair.
type TrackAggregate struct {
	ArtistName   string  `yaml:"artist" json:"artist"`
	TrackName    string  `yaml:"track" json:"track"`
	TotalMinutes float64 `yaml:"total_minutes" json:"total_minutes"`
	ListenCount  int     `yaml:"listens" json:"listens"`
	Rank         int     `yaml:"rank" json:"rank"`

	totalMs int64
}

// PeriodAggregate is the summed listening of a month ("2006-01") or an ISO
// year ("2006"), optionally for one artist.
type PeriodAggregate struct {
	Period       string  `yaml:"period" json:"period"`
	ArtistName   string  `yaml:"artist,omitempty" json:"artist,omitempty"`
	TotalMinutes float64 `yaml:"total_minutes" json:"total_minutes"`
	Listens      int     `yaml:"listens" json:"listens"`

	totalMs int64
}

// TopArtists is a cut of the ranked artist table. Order is the category sort
// order shared by every chart with an artist axis.
type TopArtists struct {
	Label     string            `yaml:"label" json:"label"`
	Truncated bool              `yaml:"truncated" json:"truncated"`
	Artists   []ArtistAggregate `yaml:"artists" json:"artists"`
	Order     []string          `yaml:"order" json:"order"`
}

// Summary holds the scalar metrics of a filtered event set.
type Summary struct {
	DistinctArtists int     `yaml:"distinct_artists" json:"distinct_artists"`
	DistinctTracks  int     `yaml:"distinct_tracks" json:"distinct_tracks"`
	TopArtist       string  `yaml:"top_artist" json:"top_artist"`
	TotalHours      float64 `yaml:"total_hours" json:"total_hours"`
	Listens         int     `yaml:"listens" json:"listens"`
	FirstListen     string  `yaml:"first_listen" json:"first_listen"`
	LastListen      string  `yaml:"last_listen" json:"last_listen"`
	Timespan        string  `yaml:"timespan" json:"timespan"`
}

// ArtistProfile is the lifetime view of one artist, or of all artists.
type ArtistProfile struct {
	Artist           string            `yaml:"artist" json:"artist"`
	LifetimeRank     string            `yaml:"lifetime_rank" json:"lifetime_rank"`
	TotalHours       float64           `yaml:"total_hours" json:"total_hours"`
	UniqueTracks     int               `yaml:"unique_tracks" json:"unique_tracks"`
	TopSong          string            `yaml:"top_song" json:"top_song"`
	MostListenedYear int               `yaml:"most_listened_year" json:"most_listened_year"`
	Years            []int             `yaml:"years" json:"years"`
	Tracks           []TrackAggregate  `yaml:"tracks" json:"tracks"`
	Months           []PeriodAggregate `yaml:"months" json:"months"`
}

// YearView narrows an artist profile to one ISO year.
type YearView struct {
	Artist       string           `yaml:"artist" json:"artist"`
	Year         int              `yaml:"year" json:"year"`
	Rank         string           `yaml:"rank" json:"rank"`
	TotalHours   float64          `yaml:"total_hours" json:"total_hours"`
	UniqueTracks int              `yaml:"unique_tracks" json:"unique_tracks"`
	Tracks       []TrackAggregate `yaml:"tracks" json:"tracks"`
}
