package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// DefaultTopN is the size of each ranked list.
const DefaultTopN = 10

// Rank evaluates every window independently over panel and returns, per
// window, the topN securities by change, descending.
//
// Behavior:
//   - The change of a security over window w is price[last]/price[last-w] - 1,
//     where last is the final date of the panel axis and last-w is the axis
//     date w positions earlier.
//   - A security without a price on either date is excluded, which covers
//     every series with fewer than w+1 observations. Non-finite changes are
//     excluded too.
//   - Equal changes are ordered by symbol.
//   - Fewer than topN eligible securities yields a shorter list.
func Rank(panel models.Panel, windows []models.Window, topN int) []models.Ranking {
	axis := panel.Axis()
	symbols := panel.Symbols()

	out := make([]models.Ranking, 0, len(windows))
	for _, w := range windows {
		entries := make([]models.RankEntry, 0, len(symbols))
		for _, sym := range symbols {
			if c, ok := PercentChange(panel[sym], axis, w.Periods); ok {
				entries = append(entries, models.RankEntry{Symbol: sym, Change: c})
			}
		}
		out = append(out, models.Ranking{Window: w, Entries: top(entries, topN)})
	}
	return out
}

func top(entries []models.RankEntry, n int) []models.RankEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Change != entries[j].Change {
			return entries[i].Change > entries[j].Change
		}
		return entries[i].Symbol < entries[j].Symbol
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// PercentChange returns the fractional change of s over the last periods
// positions of axis. ok is false when the change is undefined.
func PercentChange(s models.PriceSeries, axis []time.Time, periods int) (float64, bool) {
	last := len(axis) - 1
	return changeAt(s, axis, last, periods)
}

func changeAt(s models.PriceSeries, axis []time.Time, i, periods int) (float64, bool) {
	if periods < 1 || i < periods || i >= len(axis) {
		return 0, false
	}
	now, ok := s.PriceOn(axis[i])
	if !ok {
		return 0, false
	}
	then, ok := s.PriceOn(axis[i-periods])
	if !ok {
		return 0, false
	}
	c := now/then - 1
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, false
	}
	return c, true
}

// ChangeHistory returns the rolling periods-position change of s along axis,
// in percent, restricted to the last tail axis dates. Dates where the change
// is undefined are skipped.
func ChangeHistory(s models.PriceSeries, axis []time.Time, periods, tail int) models.ChangeHistory {
	h := models.ChangeHistory{Symbol: s.Symbol}

	from := 0
	if tail > 0 && len(axis) > tail {
		from = len(axis) - tail
	}
	for i := from; i < len(axis); i++ {
		if c, ok := changeAt(s, axis, i, periods); ok {
			h.Points = append(h.Points, models.ChangePoint{Date: axis[i], Percent: c * 100})
		}
	}
	return h
}
