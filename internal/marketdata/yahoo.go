package marketdata

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// chartResponse mirrors the subset of the /v8/finance/chart payload we read.
// Provider arrays may contain JSON nulls, hence the null types.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *chartError) isNotFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []null.Float `json:"open"`
			High   []null.Float `json:"high"`
			Low    []null.Float `json:"low"`
			Close  []null.Float `json:"close"`
			Volume []null.Int   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []null.Float `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

func (r chartResult) bars() []models.Bar {
	if len(r.Indicators.Quote) == 0 {
		return []models.Bar{}
	}
	q := r.Indicators.Quote[0]

	var adj []null.Float
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	out := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePx := at(q.Close, i)
		if !closePx.Valid {
			continue
		}
		adjPx := at(adj, i)
		if !adjPx.Valid {
			adjPx = closePx
		}

		var vol int64
		if i < len(q.Volume) {
			vol = q.Volume[i].ValueOrZero()
		}

		out = append(out, models.Bar{
			Date:     exchangeDate(ts, r.Meta.GMTOffset),
			Open:     at(q.Open, i).ValueOrZero(),
			High:     at(q.High, i).ValueOrZero(),
			Low:      at(q.Low, i).ValueOrZero(),
			Close:    closePx.Float64,
			AdjClose: adjPx.Float64,
			Volume:   vol,
		})
	}
	return out
}

func at(xs []null.Float, i int) null.Float {
	if i < len(xs) {
		return xs[i]
	}
	return null.Float{}
}

// exchangeDate converts a provider timestamp to the trading date it belongs to.
func exchangeDate(ts, gmtOffset int64) time.Time {
	y, m, d := time.Unix(ts+gmtOffset, 0).UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
