package marketdata

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
)

// FetchPanel fetches every symbol sequentially and builds a price panel.
//
// Parameters:
//   - f: provider used for each request.
//   - symbols: identifiers to fetch, in order.
//   - r: inclusive date range.
//   - col: which price column feeds each series.
//   - progress: when non-nil, a progress bar is drawn to it.
//
// Behavior:
//   - Symbols with no usable rows are omitted from the panel and logged.
//   - The first fetch error aborts the whole panel.
//   - A cancelled ctx stops the loop before the next request.
func FetchPanel(ctx context.Context, f Fetcher, symbols []string, r models.DateRange, col models.PriceColumn, progress io.Writer) (models.Panel, error) {
	panel := make(models.Panel, len(symbols))

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(symbols),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("Fetching prices"),
			progressbar.OptionShowCount(),
		)
	}

	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bars, err := f.FetchBars(ctx, sym, r)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", sym, err)
		}

		series := models.NewPriceSeries(sym, bars, col)
		if series.Len() == 0 {
			logger.L().Warn().Str("symbol", sym).Msg("no data, omitted from panel")
		} else {
			panel[sym] = series
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return panel, nil
}
