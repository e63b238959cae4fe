package models

import "time"

// DateRange is a concrete, inclusive calendar range requested from the provider.
type DateRange struct {
	Start time.Time
	Stop  time.Time
}

// RunContext carries everything one report invocation needs.
//
// It replaces process-wide state: the as-of date decides the output folder,
// OutputDir is the root under which the dated folder is created, Universe
// lists the identifiers to rank and Lookback is the trailing trading-day
// history fetched for the panel.
type RunContext struct {
	RunID     string
	AsOf      time.Time   `validate:"required"`
	OutputDir string      `validate:"required"`
	Universe  []string    `validate:"min=1,dive,required"`
	Lookback  int         `validate:"min=2"`
	TopN      int         `validate:"min=1"`
	Price     PriceColumn `validate:"oneof=adjclose close"`
	Windows   []Window    `validate:"min=1,dive"`
}

// DayFolder returns the as-of date formatted as the output sub-folder name.
func (rc RunContext) DayFolder() string {
	return rc.AsOf.Format(time.DateOnly)
}
