// Package calendar builds dense week-by-day listening heatmaps.
package calendar

import (
	"fmt"
	"sort"
)

// Scheme cuts minutes into labeled intensity buckets. Bucket i covers the
// half-open interval (Boundaries[i], Boundaries[i+1]], so there is one label
// fewer than there are boundaries.
type Scheme struct {
	Name       string    `yaml:"name" json:"name"`
	Boundaries []float64 `yaml:"boundaries" json:"boundaries"`
	Labels     []string  `yaml:"labels" json:"labels"`
	Colors     []string  `yaml:"colors,omitempty" json:"colors,omitempty"`
}

// Scheme presets.
var (
	HistoryScheme = Scheme{
		Name:       "history",
		Boundaries: []float64{-1, 1, 5, 15, 60, 60 * 60 * 24},
		Labels:     []string{"0 min", "1-5 min", "5-15 min", "15-60 min", "60+ min"},
		Colors:     []string{"#e0e0e0", "#90caf9", "#64b5f6", "#42a5f5", "#1e88e5"},
	}
	LineupScheme = Scheme{
		Name:       "lineup",
		Boundaries: []float64{-1, 1, 5, 15, 10000},
		Labels:     []string{"0 min", "<5 min", "<15 min", ">15 min"},
		Colors:     []string{"#e0e0e0", "#cddc39", "#8bc34a", "#4caf50"},
	}
)

// SchemeByName returns a preset scheme.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "", HistoryScheme.Name:
		return HistoryScheme, nil
	case LineupScheme.Name:
		return LineupScheme, nil
	}
	return Scheme{}, fmt.Errorf("unknown bucket scheme %q", name)
}

func (s Scheme) Validate() error {
	if len(s.Boundaries) < 2 {
		return fmt.Errorf("bucket scheme %q: need at least two boundaries", s.Name)
	}
	if !sort.Float64sAreSorted(s.Boundaries) {
		return fmt.Errorf("bucket scheme %q: boundaries must ascend", s.Name)
	}
	for i := 1; i < len(s.Boundaries); i++ {
		if s.Boundaries[i] == s.Boundaries[i-1] {
			return fmt.Errorf("bucket scheme %q: duplicate boundary %v", s.Name, s.Boundaries[i])
		}
	}
	if len(s.Labels) != len(s.Boundaries)-1 {
		return fmt.Errorf("bucket scheme %q: %d labels for %d boundaries", s.Name, len(s.Labels), len(s.Boundaries))
	}
	if len(s.Colors) != 0 && len(s.Colors) != len(s.Labels) {
		return fmt.Errorf("bucket scheme %q: %d colors for %d labels", s.Name, len(s.Colors), len(s.Labels))
	}
	return nil
}

// Bucket returns the index of the bucket holding v. Values at or below the
// first boundary land in the first bucket, values above the last boundary in
// the last one.
func (s Scheme) Bucket(v float64) int {
	last := len(s.Labels) - 1
	for i := 0; i < last; i++ {
		if v <= s.Boundaries[i+1] {
			return i
		}
	}
	return last
}

// Label returns the label of the bucket holding v.
func (s Scheme) Label(v float64) string {
	return s.Labels[s.Bucket(v)]
}
