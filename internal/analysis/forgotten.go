package analysis

import (
	"sort"
	"time"

	"github.com/ademuri/streaming-history/internal/history"
)

type ForgottenConfig struct {
	// DormantDays is the minimum number of days since an artist's last
	// listen, counted back from the reference time.
	DormantDays    int
	ResultsPerBand int
	SortBy         string // "dormancy" or "minutes"
}

// ForgottenArtist is an artist once listened to heavily but not recently.
type ForgottenArtist struct {
	Artist        string    `yaml:"artist" json:"artist"`
	TotalMinutes  float64   `yaml:"total_minutes" json:"total_minutes"`
	Listens       int       `yaml:"listens" json:"listens"`
	FirstListen   time.Time `yaml:"first_listen" json:"first_listen"`
	LastListen    time.Time `yaml:"last_listen" json:"last_listen"`
	DaysSinceLast int       `yaml:"days_since_last" json:"days_since_last"`
	Band          string    `yaml:"band" json:"band"`

	totalMs int64
}

const (
	BandObsession = "Obsession"
	BandStrong    = "Strong"
	BandModerate  = "Moderate"

	// Minutes an artist needs for each band.
	ThresholdObsession = 600
	ThresholdStrong    = 180
	ThresholdModerate  = 60
)

// Bands lists the interest bands from strongest to weakest.
var Bands = []string{BandObsession, BandStrong, BandModerate}

// GetThreshold returns the minimum minutes for a band.
func GetThreshold(band string) int {
	switch band {
	case BandObsession:
		return ThresholdObsession
	case BandStrong:
		return ThresholdStrong
	case BandModerate:
		return ThresholdModerate
	}
	return 0
}

func determineBand(ms int64) string {
	for _, band := range Bands {
		if ms >= int64(GetThreshold(band))*msPerMinute {
			return band
		}
	}
	return ""
}

// Forgotten groups dormant artists by interest band. Artists whose last
// listen is fewer than DormantDays before now, or whose minutes fall below
// every band, are left out.
func Forgotten(events []history.Event, cfg ForgottenConfig, now time.Time) map[string][]ForgottenArtist {
	byArtist := make(map[string]*ForgottenArtist)
	for _, e := range events {
		a, ok := byArtist[e.ArtistName]
		if !ok {
			a = &ForgottenArtist{Artist: e.ArtistName, FirstListen: e.EndTime, LastListen: e.EndTime}
			byArtist[e.ArtistName] = a
		}
		a.totalMs += e.MsPlayed
		a.Listens++
		if e.EndTime.Before(a.FirstListen) {
			a.FirstListen = e.EndTime
		}
		if e.EndTime.After(a.LastListen) {
			a.LastListen = e.EndTime
		}
	}

	results := make(map[string][]ForgottenArtist)
	for _, a := range byArtist {
		a.DaysSinceLast = int(now.Sub(a.LastListen).Hours() / 24)
		if a.DaysSinceLast < cfg.DormantDays {
			continue
		}
		a.Band = determineBand(a.totalMs)
		if a.Band == "" {
			continue
		}
		a.TotalMinutes = minutes(a.totalMs)
		results[a.Band] = append(results[a.Band], *a)
	}

	for band := range results {
		sortArtists(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}
	return results
}

func sortArtists(artists []ForgottenArtist, sortBy string) {
	sort.Slice(artists, func(i, j int) bool {
		if sortBy == "minutes" && artists[i].totalMs != artists[j].totalMs {
			return artists[i].totalMs > artists[j].totalMs
		}
		// Longest dormancy first
		if artists[i].DaysSinceLast != artists[j].DaysSinceLast {
			return artists[i].DaysSinceLast > artists[j].DaysSinceLast
		}
		return artists[i].Artist < artists[j].Artist
	})
}
