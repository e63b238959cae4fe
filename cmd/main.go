package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guregu/null/v6"
	"github.com/urfave/cli/v3"

	"github.com/guttosm/marketpulse/config"
	"github.com/guttosm/marketpulse/internal/app"
	"github.com/guttosm/marketpulse/internal/calendar"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/service"
	"github.com/guttosm/marketpulse/internal/universe"
)

// appInit is an indirection for wiring the services; tests can override this.
var appInit = app.InitializeApp

var errRangeFlags = errors.New("use either --days or --start/--stop, not both")

// returnRow is one CSV line of the returns command. Undefined cells are empty.
type returnRow struct {
	Date      string `csv:"Date"`
	Price     string `csv:"Price"`
	Return    string `csv:"1D_Return"`
	LogReturn string `csv:"1D_Log_Return"`
	CumReturn string `csv:"Cum_Return"`
	AnnualVol string `csv:"Ann_Vol"`
}

// newApp builds the command tree. Flag defaults come from config.AppConfig,
// so LoadConfig must run first.
func newApp() *cli.Command {
	return &cli.Command{
		Name:   "marketpulse",
		Usage:  "Daily market performance report and single-security return statistics",
		Flags:  reportFlags(),
		Action: reportAction,
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "Rank the top performers over 1D/1W/1M/1Y and write one chart per window",
				Flags:  reportFlags(),
				Action: reportAction,
			},
			{
				Name:   "returns",
				Usage:  "Print one security's prices with return and volatility columns as CSV",
				Flags:  returnsFlags(),
				Action: returnsAction,
			},
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Root directory; charts go to `DIR`/YYYY-MM-DD/",
			Value:   config.AppConfig.Report.OutputDir,
		},
		&cli.StringFlag{
			Name:    "universe",
			Aliases: []string{"u"},
			Usage:   "CSV `FILE` with a Symbol column",
			Value:   config.AppConfig.Report.UniverseFile,
		},
		&cli.IntFlag{
			Name:  "lookback",
			Usage: "Trailing trading days of history to fetch",
			Value: config.AppConfig.Report.LookbackDays,
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "Securities per ranking",
			Value: config.AppConfig.Report.TopN,
		},
		&cli.TimestampFlag{
			Name:   "as-of",
			Usage:  "Report date in `YYYY-MM-DD` format. Defaults to today.",
			Config: cli.TimestampConfig{Layouts: []string{time.DateOnly}},
		},
		&cli.StringFlag{
			Name:  "price",
			Usage: "Price column: adjclose or close",
			Value: string(models.PriceAdjClose),
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Do not draw the fetch progress bar",
		},
	}
}

func returnsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "ticker",
			Aliases:  []string{"t"},
			Usage:    "Security identifier",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Trailing trading days (ignored when --start is given)",
			Value: config.AppConfig.Stats.AnnualizationDays,
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "Start date in `YYYY-MM-DD` format",
			Config: cli.TimestampConfig{Layouts: []string{time.DateOnly}},
		},
		&cli.TimestampFlag{
			Name:   "stop",
			Usage:  "Stop date in `YYYY-MM-DD` format. Defaults to today.",
			Config: cli.TimestampConfig{Layouts: []string{time.DateOnly}},
		},
		&cli.StringFlag{
			Name:  "price",
			Usage: "Price column: adjclose or close",
			Value: string(models.PriceAdjClose),
		},
		&cli.IntFlag{
			Name:  "annualization",
			Usage: "Trading days per year used to annualize volatility",
			Value: config.AppConfig.Stats.AnnualizationDays,
		},
		&cli.IntFlag{
			Name:  "window",
			Usage: "Rolling volatility window (0 = annualization)",
		},
	}
}

// reportAction runs the daily performance report and logs the elapsed wall time.
func reportAction(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()

	symbols, err := universe.LoadFile(cmd.String("universe"))
	if err != nil {
		return err
	}

	rc := models.RunContext{
		RunID:     logger.NewRunID(),
		AsOf:      asOfDate(cmd.Timestamp("as-of")),
		OutputDir: cmd.String("output"),
		Universe:  symbols,
		Lookback:  cmd.Int("lookback"),
		TopN:      cmd.Int("top"),
		Price:     models.PriceColumn(cmd.String("price")),
		Windows:   models.DefaultWindows(),
	}

	var progress io.Writer = os.Stderr
	if cmd.Bool("no-progress") {
		progress = nil
	}

	a, err := appInit(config.AppConfig, progress)
	if err != nil {
		return err
	}
	rep, err := a.Reports.Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	log := logger.WithRun(rep.RunID)
	log.Info().
		Int("symbols", rep.Symbols).
		Strs("files", rep.Files).
		Dur("elapsed", time.Since(start)).
		Msg("report completed")
	return nil
}

// returnsAction prints the return table of one security to the command writer.
func returnsAction(ctx context.Context, cmd *cli.Command) error {
	lb, err := lookbackFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := appInit(config.AppConfig, nil)
	if err != nil {
		return err
	}
	table, err := a.Returns.GetReturns(ctx, service.ReturnsRequest{
		Ticker:        universe.ProviderSymbol(cmd.String("ticker")),
		Lookback:      lb,
		AsOf:          asOfDate(time.Time{}),
		Price:         models.PriceColumn(cmd.String("price")),
		Annualization: cmd.Int("annualization"),
		Window:        cmd.Int("window"),
	})
	if err != nil {
		return fmt.Errorf("returns: %w", err)
	}

	rows := make([]returnRow, len(table.Records))
	for i, r := range table.Records {
		rows[i] = returnRow{
			Date:      r.Date.Format(time.DateOnly),
			Price:     strconv.FormatFloat(r.Price, 'f', -1, 64),
			Return:    cell(r.Return),
			LogReturn: cell(r.LogReturn),
			CumReturn: cell(r.CumReturn),
			AnnualVol: cell(r.AnnualVol),
		}
	}
	if err := gocsv.Marshal(rows, cmd.Root().Writer); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// lookbackFromFlags turns --days / --start / --stop into one Lookback.
func lookbackFromFlags(cmd *cli.Command) (calendar.Lookback, error) {
	if !cmd.IsSet("start") {
		if cmd.IsSet("stop") {
			return calendar.Lookback{}, fmt.Errorf("%w: --stop requires --start", calendar.ErrInvalidRange)
		}
		return calendar.Trailing(cmd.Int("days")), nil
	}
	if cmd.IsSet("days") {
		return calendar.Lookback{}, errRangeFlags
	}
	var stop time.Time
	if cmd.IsSet("stop") {
		stop = cmd.Timestamp("stop")
	}
	return calendar.Between(cmd.Timestamp("start"), stop), nil
}

func cell(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// asOfDate returns t's calendar date at UTC midnight, or today's when t is zero.
func asOfDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// main is the entry point of the marketpulse application.
//
// Commands:
//   - report (default): daily top-N performance charts for the ticker universe.
//   - returns: single-security price and return statistics as CSV on stdout.
//
// SIGINT/SIGTERM cancel the context, aborting the in-flight request.
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logger.L().Error().Err(err).Msg("marketpulse failed")
		stop()
		os.Exit(1)
	}
}
