package analysis

import (
	"time"

	"github.com/ademuri/streaming-history/internal/history"
)

// Defaults for NewArtists. An artist is new when it has more than
// DefaultNewMinListens listens in the period and fewer than
// DefaultNewMaxPriorListens before it.
const (
	DefaultNewMinListens      = 5
	DefaultNewMaxPriorListens = 5
)

type NewArtistsConfig struct {
	MinListens      int
	MaxPriorListens int
}

type NewArtist struct {
	Rank         int       `yaml:"rank" json:"rank"`
	ArtistName   string    `yaml:"artist" json:"artist"`
	Listens      int       `yaml:"listens" json:"listens"`
	PriorListens int       `yaml:"prior_listens" json:"prior_listens"`
	TotalMinutes float64   `yaml:"total_minutes" json:"total_minutes"`
	FirstListen  time.Time `yaml:"first_listen" json:"first_listen"`
}

// NewArtists compares the listens of current against those of prior and
// returns the artists that broke through, ranked by listens.
func NewArtists(current, prior []history.Event, cfg NewArtistsConfig) []NewArtist {
	priorListens := make(map[string]int)
	for _, e := range prior {
		priorListens[e.ArtistName]++
	}

	type acc struct {
		listens int
		ms      int64
		first   time.Time
	}
	byArtist := make(map[string]*acc)
	for _, e := range current {
		a, ok := byArtist[e.ArtistName]
		if !ok {
			a = &acc{first: e.EndTime}
			byArtist[e.ArtistName] = a
		}
		a.listens++
		a.ms += e.MsPlayed
		if e.EndTime.Before(a.first) {
			a.first = e.EndTime
		}
	}

	var out []NewArtist
	for artist, a := range byArtist {
		p := priorListens[artist]
		if a.listens <= cfg.MinListens || p >= cfg.MaxPriorListens {
			continue
		}
		out = append(out, NewArtist{
			ArtistName:   artist,
			Listens:      a.listens,
			PriorListens: p,
			TotalMinutes: minutes(a.ms),
			FirstListen:  a.first,
		})
	}
	rank(out,
		func(n *NewArtist) int64 { return int64(n.Listens) },
		func(n *NewArtist) string { return n.ArtistName },
		func(n *NewArtist, r int) { n.Rank = r })
	return out
}

// Before returns the events dated strictly before t.
func Before(events []history.Event, t time.Time) []history.Event {
	var out []history.Event
	for _, e := range events {
		if e.Date.Before(history.DateOf(t)) {
			out = append(out, e)
		}
	}
	return out
}
