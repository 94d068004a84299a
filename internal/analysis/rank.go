package analysis

import (
	"fmt"
	"sort"
)

// Measure selects the quantity aggregates are ranked by.
type Measure int

const (
	ByMinutes Measure = iota
	ByListens
)

func (m Measure) String() string {
	if m == ByListens {
		return "listens"
	}
	return "minutes"
}

// ParseMeasure accepts "minutes" or "listens".
func ParseMeasure(s string) (Measure, error) {
	switch s {
	case "", "minutes":
		return ByMinutes, nil
	case "listens":
		return ByListens, nil
	}
	return ByMinutes, fmt.Errorf("unknown measure %q", s)
}

// DefaultTopN is the length of top lists.
const DefaultTopN = 40

// rank sorts items by measure descending, breaking ties by key, and assigns
// competition ranks: an item's rank is one more than the number of items
// with a strictly greater measure, so equal measures share a rank.
func rank[T any](items []T, measure func(*T) int64, key func(*T) string, set func(*T, int)) {
	sort.SliceStable(items, func(i, j int) bool {
		mi, mj := measure(&items[i]), measure(&items[j])
		if mi != mj {
			return mi > mj
		}
		return key(&items[i]) < key(&items[j])
	})
	r := 0
	for i := range items {
		if i == 0 || measure(&items[i]) != measure(&items[i-1]) {
			r = i + 1
		}
		set(&items[i], r)
	}
}

// TopN returns the first n entries and the label to show above them. The
// label carries "(Top n)" only when entries were cut.
func TopN[T any](items []T, n int, title string) ([]T, string, bool) {
	if n <= 0 || len(items) <= n {
		return items, title, false
	}
	return items[:n], fmt.Sprintf("%s (Top %d)", title, n), true
}
