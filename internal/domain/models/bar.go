package models

import "time"

// Bar represents a single daily row returned by the market data provider.
//
// Fields mirror the provider columns:
//   - Date: trading day in the exchange's calendar, at UTC midnight.
//   - Open, High, Low, Close: raw prices for the day.
//   - AdjClose: close adjusted for dividends and splits.
//   - Volume: shares traded.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// PriceColumn selects which Bar price feeds return computations.
type PriceColumn string

const (
	PriceAdjClose PriceColumn = "adjclose"
	PriceClose    PriceColumn = "close"
)

// Value returns the price of b for column c. Unknown columns fall back to
// the adjusted close, the canonical price for returns.
func (c PriceColumn) Value(b Bar) float64 {
	if c == PriceClose {
		return b.Close
	}
	return b.AdjClose
}
