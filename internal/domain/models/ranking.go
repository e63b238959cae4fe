package models

import "time"

// Window is a named look-back period measured in trading days, together with
// the presentation details used when its ranking is charted.
type Window struct {
	Code       string `validate:"required"` // file prefix, e.g. "1D"
	Name       string `validate:"required"` // "Daily", "Weekly", ...
	Periods    int    `validate:"min=1"`    // trading days looked back
	PlotTail   int    `validate:"min=1"`    // trailing points drawn per security
	LegendTop  bool
	LegendLeft bool
}

// DefaultWindows are the four report windows: 1 day, 1 week, 1 month, 1 year.
func DefaultWindows() []Window {
	return []Window{
		{Code: "1D", Name: "Daily", Periods: 1, PlotTail: 2, LegendTop: true, LegendLeft: true},
		{Code: "1W", Name: "Weekly", Periods: 5, PlotTail: 5, LegendTop: true, LegendLeft: false},
		{Code: "1M", Name: "Monthly", Periods: 21, PlotTail: 21, LegendTop: false, LegendLeft: false},
		{Code: "1Y", Name: "Yearly", Periods: 252, PlotTail: 252, LegendTop: true, LegendLeft: true},
	}
}

// RankEntry is one security's change over a window.
// Change is a fraction: 0.1 means +10%.
type RankEntry struct {
	Symbol string
	Change float64
}

// Percent returns the change expressed in percent.
func (e RankEntry) Percent() float64 { return e.Change * 100 }

// Ranking is the ordered top-N list for one window.
type Ranking struct {
	Window  Window
	Entries []RankEntry
}

// ChangePoint is one point of a rolling change history, in percent.
type ChangePoint struct {
	Date    time.Time
	Percent float64
}

// ChangeHistory is the charted history of one ranked security.
type ChangeHistory struct {
	Symbol string
	Points []ChangePoint
}
