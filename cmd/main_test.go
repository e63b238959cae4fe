package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/marketpulse/config"
	"github.com/guttosm/marketpulse/internal/app"
	"github.com/guttosm/marketpulse/internal/chart"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/marketdata"
)

// fakeFetcher returns the same canned bars for any range.
type fakeFetcher struct {
	bars map[string][]models.Bar
}

func (f fakeFetcher) FetchBars(_ context.Context, symbol string, _ models.DateRange) ([]models.Bar, error) {
	return f.bars[symbol], nil
}

func barsEnding(end time.Time, prices ...float64) []models.Bar {
	out := make([]models.Bar, len(prices))
	for i := range prices {
		d := end.AddDate(0, 0, i-len(prices)+1)
		out[i] = models.Bar{Date: d, Close: prices[i], AdjClose: prices[i]}
	}
	return out
}

func setup(t *testing.T, f marketdata.Fetcher) {
	t.Helper()
	config.AppConfig = config.Config{
		Report: config.ReportConfig{OutputDir: t.TempDir(), LookbackDays: 10, TopN: 10},
		Stats:  config.StatsConfig{AnnualizationDays: 252},
		Chart:  config.ChartConfig{WidthIn: 3, HeightIn: 2},
	}
	orig := appInit
	appInit = func(cfg config.Config, progress io.Writer) (*app.App, error) {
		return app.New(f, chart.Options{WidthIn: cfg.Chart.WidthIn, HeightIn: cfg.Chart.HeightIn}, progress), nil
	}
	t.Cleanup(func() { appInit = orig })
}

func TestReturnsCommand_PrintsCSV(t *testing.T) {
	end := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	setup(t, fakeFetcher{bars: map[string][]models.Bar{"BRK-B": barsEnding(end, 100, 110, 121)}})

	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"marketpulse", "returns", "--ticker", "brk.b", "--days", "3", "--window", "2"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want header + 3 rows, got %q", buf.String())
	}
	if lines[0] != "Date,Price,1D_Return,1D_Log_Return,Cum_Return,Ann_Vol" {
		t.Fatalf("header: %q", lines[0])
	}
	if lines[1] != "2025-09-17,100,,,," {
		t.Fatalf("first row should have empty derived cells: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2025-09-18,110,0.1") {
		t.Fatalf("second row: %q", lines[2])
	}
	if strings.HasSuffix(lines[3], ",") {
		t.Fatalf("volatility should be defined on the last row: %q", lines[3])
	}
}

func TestReturnsCommand_RangeFlags(t *testing.T) {
	setup(t, fakeFetcher{})

	cases := []struct {
		name string
		args []string
		want error
	}{
		{"days and start", []string{"--days", "5", "--start", "2024-01-02"}, errRangeFlags},
		{"stop without start", []string{"--stop", "2024-01-02"}, nil},
		{"no data", []string{"--start", "2024-01-02", "--stop", "2024-02-01"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp()
			app.Writer = &bytes.Buffer{}
			args := append([]string{"marketpulse", "returns", "--ticker", "NONE"}, tc.args...)
			err := app.Run(context.Background(), args)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReportCommand_WritesCharts(t *testing.T) {
	asOf := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	setup(t, fakeFetcher{bars: map[string][]models.Bar{
		"AAA": barsEnding(asOf, 10, 11, 12, 13, 14, 15, 16),
		"BBB": barsEnding(asOf, 20, 19, 21, 22, 20, 18, 25),
	}})

	dir := t.TempDir()
	uni := filepath.Join(dir, "sp500.csv")
	if err := os.WriteFile(uni, []byte("Symbol,Security\nAAA,A Corp\nBBB,B Corp\nCCC,No Data\n"), 0o600); err != nil {
		t.Fatalf("write universe: %v", err)
	}
	out := filepath.Join(dir, "charts")

	for _, args := range [][]string{
		{"marketpulse", "report"},
		{"marketpulse"}, // report is the default action
	} {
		app := newApp()
		full := append(args, "--output", out, "--universe", uni, "--as-of", "2025-09-19", "--no-progress")
		if err := app.Run(context.Background(), full); err != nil {
			t.Fatalf("%v: unexpected err: %v", args, err)
		}
		for _, code := range []string{"1D", "1W", "1M", "1Y"} {
			p := filepath.Join(out, "2025-09-19", code+"_performance.png")
			if _, err := os.Stat(p); err != nil {
				t.Fatalf("expected %s: %v", p, err)
			}
		}
	}
}

func TestReportCommand_MissingUniverse(t *testing.T) {
	setup(t, fakeFetcher{})
	app := newApp()
	err := app.Run(context.Background(), []string{"marketpulse", "report", "--universe", filepath.Join(t.TempDir(), "nope.csv"), "--no-progress"})
	if err == nil {
		t.Fatal("expected error for missing universe file")
	}
}

func TestAsOfDate(t *testing.T) {
	got := asOfDate(time.Date(2025, 3, 4, 23, 59, 0, 0, time.FixedZone("X", -5*3600)))
	if got.Format(time.DateOnly) != "2025-03-04" || got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("unexpected: %s", got)
	}
	if asOfDate(time.Time{}).IsZero() {
		t.Fatal("zero input should default to today")
	}
}
