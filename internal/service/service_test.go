package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/marketpulse/internal/chart"
	"github.com/guttosm/marketpulse/internal/domain/models"
)

// stubFetcher serves canned bars per symbol.
type stubFetcher struct {
	bars  map[string][]models.Bar
	err   error
	calls int
	last  models.DateRange
}

func (s *stubFetcher) FetchBars(_ context.Context, symbol string, r models.DateRange) ([]models.Bar, error) {
	s.calls++
	s.last = r
	if s.err != nil {
		return nil, s.err
	}
	return s.bars[symbol], nil
}

// stubRenderer records charts instead of drawing them.
type stubRenderer struct {
	dir    string
	charts []chart.Chart
	err    error
}

func (s *stubRenderer) Render(c chart.Chart) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.charts = append(s.charts, c)
	return chart.Path(s.dir, c.Window, c.AsOf), nil
}

var errBoom = errors.New("boom")

// dailyBars builds consecutive trading-day bars ending on end.
func dailyBars(end time.Time, prices ...float64) []models.Bar {
	out := make([]models.Bar, len(prices))
	d := end
	for i := len(prices) - 1; i >= 0; i-- {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, -1)
		}
		out[i] = models.Bar{Date: d, Close: prices[i], AdjClose: prices[i]}
		d = d.AddDate(0, 0, -1)
	}
	return out
}
