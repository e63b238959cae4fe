package models

import (
	"slices"
	"sort"
	"time"
)

// PricePoint is one (date, price) observation.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is the ordered price history of one security.
//
// Points are ascending by date with no duplicate dates. A series is treated
// as immutable once built.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// NewPriceSeries builds a series from provider bars using the given price column.
// Bars are sorted by date; later duplicates of a date replace earlier ones and
// non-positive prices are dropped.
func NewPriceSeries(symbol string, bars []Bar, col PriceColumn) PriceSeries {
	sorted := slices.Clone(bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	points := make([]PricePoint, 0, len(sorted))
	for _, b := range sorted {
		p := col.Value(b)
		if p <= 0 {
			continue
		}
		if n := len(points); n > 0 && points[n-1].Date.Equal(b.Date) {
			points[n-1].Price = p
			continue
		}
		points = append(points, PricePoint{Date: b.Date, Price: p})
	}
	return PriceSeries{Symbol: symbol, Points: points}
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// PriceOn returns the price observed on date d.
func (s PriceSeries) PriceOn(d time.Time) (float64, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(d) })
	if i < len(s.Points) && s.Points[i].Date.Equal(d) {
		return s.Points[i].Price, true
	}
	return 0, false
}

// Panel maps a security identifier to its price series.
type Panel map[string]PriceSeries

// Symbols returns the panel identifiers in lexicographic order.
func (p Panel) Symbols() []string {
	out := make([]string, 0, len(p))
	for s := range p {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Axis returns the shared date axis: the ascending union of every series' dates.
func (p Panel) Axis() []time.Time {
	seen := make(map[int64]time.Time)
	for _, s := range p {
		for _, pt := range s.Points {
			seen[pt.Date.Unix()] = pt.Date
		}
	}
	out := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}
