package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/guttosm/marketpulse/internal/calendar"
	"github.com/guttosm/marketpulse/internal/chart"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/marketdata"
	"github.com/guttosm/marketpulse/internal/ranking"
)

// rendererCtor is an indirection for creating the chart renderer; tests can override this.
var rendererCtor = func(opts chart.Options) chart.Renderer {
	return chart.NewPNGRenderer(opts)
}

// Report summarizes one completed run.
type Report struct {
	RunID    string
	Range    models.DateRange
	Symbols  int
	Rankings []models.Ranking
	Files    []string
}

// ReportService defines the daily performance report pipeline.
type ReportService interface {
	Run(ctx context.Context, rc models.RunContext) (*Report, error)
}

type reportService struct {
	fetcher  marketdata.Fetcher
	chart    chart.Options
	progress io.Writer
}

// NewReportService wires the pipeline. chartOpts supplies the image size;
// the output directory comes from each RunContext. progress may be nil.
func NewReportService(f marketdata.Fetcher, chartOpts chart.Options, progress io.Writer) ReportService {
	return &reportService{fetcher: f, chart: chartOpts, progress: progress}
}

// Run executes fetch -> rank -> render for one RunContext.
//
// Behavior:
//   - Resolves the trailing lookback against the as-of date.
//   - Fetches the whole universe sequentially; an empty panel is ErrDataUnavailable.
//   - Ranks every window independently and charts each ranked subset.
//   - Any fetch or output failure aborts the run.
func (s *reportService) Run(ctx context.Context, rc models.RunContext) (*Report, error) {
	if err := validate.Struct(rc); err != nil {
		return nil, fmt.Errorf("invalid run context: %w", err)
	}
	if rc.RunID == "" {
		rc.RunID = logger.NewRunID()
	}
	log := logger.WithRun(rc.RunID)

	r, err := calendar.Trailing(rc.Lookback).Resolve(rc.AsOf)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("universe", len(rc.Universe)).
		Str("start", r.Start.Format(time.DateOnly)).
		Str("stop", r.Stop.Format(time.DateOnly)).
		Str("folder", rc.DayFolder()).
		Msg("report start")

	panel, err := marketdata.FetchPanel(ctx, s.fetcher, rc.Universe, r, rc.Price, s.progress)
	if err != nil {
		return nil, err
	}
	if len(panel) == 0 {
		return nil, fmt.Errorf("%w: no series for %d symbols", ErrDataUnavailable, len(rc.Universe))
	}
	log.Info().Int("symbols", len(panel)).Msg("panel fetched")

	opts := s.chart
	opts.OutputDir = rc.OutputDir
	renderer := rendererCtor(opts)

	rankings := ranking.Rank(panel, rc.Windows, rc.TopN)
	axis := panel.Axis()
	files := make([]string, 0, len(rankings))

	for _, rk := range rankings {
		c := chart.Chart{Window: rk.Window, AsOf: rc.AsOf}
		for _, e := range rk.Entries {
			c.Lines = append(c.Lines, ranking.ChangeHistory(panel[e.Symbol], axis, rk.Window.Periods, rk.Window.PlotTail))
		}

		path, err := renderer.Render(c)
		if err != nil {
			log.Error().Str("window", rk.Window.Code).Err(err).Msg("render failed")
			return nil, fmt.Errorf("render %s: %w", rk.Window.Code, err)
		}

		ev := log.Info().Str("window", rk.Window.Code).Int("ranked", len(rk.Entries)).Str("file", path)
		if len(rk.Entries) > 0 {
			ev = ev.Str("leader", rk.Entries[0].Symbol).Float64("leader_pct", rk.Entries[0].Percent())
		}
		ev.Msg("window charted")
		files = append(files, path)
	}

	return &Report{
		RunID:    rc.RunID,
		Range:    r,
		Symbols:  len(panel),
		Rankings: rankings,
		Files:    files,
	}, nil
}
