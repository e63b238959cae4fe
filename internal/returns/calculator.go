package returns

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// DefaultAnnualization is the number of trading days in a year.
const DefaultAnnualization = 252

// ErrInvalidWindow is returned when the annualization constant or the rolling
// volatility window cannot produce a sample standard deviation.
var ErrInvalidWindow = errors.New("invalid volatility window")

// Compute derives the return table of a single price series.
//
// Parameters:
//   - series: ascending price series of one security.
//   - annualization: trading days per year used to scale volatility (e.g. 252).
//   - window: number of trailing log returns in each volatility sample. Zero
//     means "same as annualization".
//
// Behavior:
//   - Simple and log returns are null at the first date.
//   - Cumulative return at t is the running product of (1 + return), which
//     equals price[t]/price[0]; null at the first date.
//   - Annualized volatility at t is the sample (n-1) standard deviation of the
//     last window log returns times sqrt(annualization); null before index window.
//
// Returns:
//   - ReturnTable aligned to the series dates, or ErrInvalidWindow.
func Compute(series models.PriceSeries, annualization, window int) (models.ReturnTable, error) {
	if window == 0 {
		window = annualization
	}
	if annualization < 1 || window < 2 {
		return models.ReturnTable{}, fmt.Errorf("%w: annualization=%d window=%d", ErrInvalidWindow, annualization, window)
	}

	n := series.Len()
	table := models.ReturnTable{
		Symbol:        series.Symbol,
		Annualization: annualization,
		Window:        window,
		Records:       make([]models.ReturnRecord, n),
	}

	logs := make([]float64, n)
	scale := math.Sqrt(float64(annualization))
	cum := 1.0

	for t, pt := range series.Points {
		rec := models.ReturnRecord{Date: pt.Date, Price: pt.Price}

		if t > 0 {
			prev := series.Points[t-1].Price
			r := pt.Price/prev - 1
			logs[t] = math.Log(pt.Price / prev)
			cum *= 1 + r

			rec.Return = null.FloatFrom(r)
			rec.LogReturn = null.FloatFrom(logs[t])
			rec.CumReturn = null.FloatFrom(cum)
		}

		if t >= window {
			sd := stat.StdDev(logs[t-window+1:t+1], nil)
			rec.AnnualVol = null.FloatFrom(sd * scale)
		}

		table.Records[t] = rec
	}

	return table, nil
}
