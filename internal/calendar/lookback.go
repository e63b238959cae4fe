package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// ErrInvalidRange is returned when a Lookback cannot be resolved to a date range.
var ErrInvalidRange = errors.New("invalid date range")

// Lookback describes how much history to request. It is either a trailing
// number of trading days counted back from the as-of date, or an explicit
// start/stop pair. Build one with Trailing or Between.
type Lookback struct {
	TradingDays int
	Start       time.Time
	Stop        time.Time
}

// Trailing returns a Lookback covering the last days trading days.
func Trailing(days int) Lookback {
	return Lookback{TradingDays: days}
}

// Between returns a Lookback for an explicit start/stop pair. A zero stop
// means "up to the as-of date".
func Between(start, stop time.Time) Lookback {
	return Lookback{Start: start, Stop: stop}
}

// IsExplicit reports whether l carries an explicit start date.
func (l Lookback) IsExplicit() bool {
	return !l.Start.IsZero()
}

// Resolve turns l into a concrete calendar range ending at asOf (or l.Stop).
//
// For trailing lookbacks the start is the oldest of the last TradingDays
// trading days, so the range holds exactly that many sessions.
func (l Lookback) Resolve(asOf time.Time) (models.DateRange, error) {
	stop := truncateToDate(asOf)

	if l.IsExplicit() {
		if !l.Stop.IsZero() {
			stop = truncateToDate(l.Stop)
		}
		start := truncateToDate(l.Start)
		if stop.Before(start) {
			return models.DateRange{}, fmt.Errorf("%w: stop %s before start %s", ErrInvalidRange, stop.Format(time.DateOnly), start.Format(time.DateOnly))
		}
		return models.DateRange{Start: start, Stop: stop}, nil
	}

	if l.TradingDays < 1 {
		return models.DateRange{}, fmt.Errorf("%w: trailing days must be positive, got %d", ErrInvalidRange, l.TradingDays)
	}

	days := LastNTradingDays(l.TradingDays, stop)
	return models.DateRange{Start: days[len(days)-1], Stop: stop}, nil
}
