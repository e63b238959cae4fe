package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/guttosm/marketpulse/internal/calendar"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/marketdata"
	"github.com/guttosm/marketpulse/internal/returns"
)

// ErrDataUnavailable is returned when the provider has no rows for the
// requested identifier and date range.
var ErrDataUnavailable = errors.New("data unavailable")

var validate = validator.New()

// ReturnsRequest selects one security's history and how to derive returns.
type ReturnsRequest struct {
	Ticker        string `validate:"required"`
	Lookback      calendar.Lookback
	AsOf          time.Time          `validate:"required"`
	Price         models.PriceColumn `validate:"oneof=adjclose close"`
	Annualization int                `validate:"min=1"`
	Window        int                `validate:"min=0"`
}

// MarketDataService defines the single-security data access view.
type MarketDataService interface {
	GetReturns(ctx context.Context, req ReturnsRequest) (*models.ReturnTable, error)
}

type marketDataService struct {
	fetcher marketdata.Fetcher
}

func NewMarketDataService(f marketdata.Fetcher) MarketDataService {
	return &marketDataService{fetcher: f}
}

// GetReturns resolves the lookback, fetches the history once and derives the
// return table.
//
// Returns:
//   - calendar.ErrInvalidRange for an unresolvable lookback.
//   - ErrDataUnavailable when the provider returns no rows.
//   - marketdata.ErrFetchFailure on provider errors.
func (s *marketDataService) GetReturns(ctx context.Context, req ReturnsRequest) (*models.ReturnTable, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid returns request: %w", err)
	}

	r, err := req.Lookback.Resolve(req.AsOf)
	if err != nil {
		return nil, err
	}

	bars, err := s.fetcher.FetchBars(ctx, req.Ticker, r)
	if err != nil {
		return nil, err
	}

	series := models.NewPriceSeries(req.Ticker, bars, req.Price)
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s between %s and %s", ErrDataUnavailable, req.Ticker, r.Start.Format(time.DateOnly), r.Stop.Format(time.DateOnly))
	}

	table, err := returns.Compute(series, req.Annualization, req.Window)
	if err != nil {
		return nil, err
	}
	return &table, nil
}
