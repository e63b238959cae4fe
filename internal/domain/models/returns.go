package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// ReturnRecord holds the derived return columns for one date of a series.
// Columns that are not yet defined (first date, volatility warm-up) are null.
type ReturnRecord struct {
	Date      time.Time
	Price     float64
	Return    null.Float
	LogReturn null.Float
	CumReturn null.Float
	AnnualVol null.Float
}

// ReturnTable is the full derived table for one security.
type ReturnTable struct {
	Symbol        string
	Annualization int
	Window        int
	Records       []ReturnRecord
}
