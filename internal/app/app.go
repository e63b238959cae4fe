package app

import (
	"fmt"
	"io"
	"net/url"

	"github.com/guttosm/marketpulse/config"
	"github.com/guttosm/marketpulse/internal/chart"
	"github.com/guttosm/marketpulse/internal/marketdata"
	"github.com/guttosm/marketpulse/internal/service"
)

// App bundles the services the commands run.
type App struct {
	Reports service.ReportService
	Returns service.MarketDataService
}

// fetcherOpener is an indirection for creating the provider client; tests can override this.
var fetcherOpener = func(cfg config.YahooConfig) marketdata.Fetcher {
	return marketdata.NewYahooClient(marketdata.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})
}

// InitializeApp sets up all application dependencies from cfg.
//
// Responsibilities:
//   - Validates the provider base URL.
//   - Creates the Yahoo Finance client.
//   - Wires the report and returns services around it.
//
// Returns:
//   - *App: ready-to-use services.
//   - error: any initialization error that occurred.
func InitializeApp(cfg config.Config, progress io.Writer) (*App, error) {
	u, err := url.Parse(cfg.Yahoo.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid YAHOO_BASE_URL %q", cfg.Yahoo.BaseURL)
	}

	f := fetcherOpener(cfg.Yahoo)
	return New(f, chart.Options{WidthIn: cfg.Chart.WidthIn, HeightIn: cfg.Chart.HeightIn}, progress), nil
}

// New wires the services around an existing fetcher. progress may be nil.
func New(f marketdata.Fetcher, chartOpts chart.Options, progress io.Writer) *App {
	return &App{
		Reports: service.NewReportService(f, chartOpts, progress),
		Returns: service.NewMarketDataService(f),
	}
}
