package presenter

import (
	"sort"

	"histpattern/pkg/model"
)

// OrderHorizons returns keys with the canonical horizons first, in
// canonical order, followed by any other keys sorted lexicographically.
// Duplicates are dropped.
func OrderHorizons(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}

	out := make([]string, 0, len(seen))
	for _, h := range model.Horizons {
		if seen[string(h)] {
			out = append(out, string(h))
			delete(seen, string(h))
		}
	}

	extras := make([]string, 0, len(seen))
	for k := range seen {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// StatisticsHorizons orders the horizons present in a summary map
func StatisticsHorizons(stats map[string]model.SummaryStatistics) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	return OrderHorizons(keys)
}
