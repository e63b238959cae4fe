package chart

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

const (
	DefaultWidthIn  = 6.4
	DefaultHeightIn = 4.8

	fileSuffix = "_performance.png"
)

// ErrOutputPath is returned when the chart directory or file cannot be written.
var ErrOutputPath = errors.New("chart output path failure")

// Chart is one ranked window ready to be drawn.
type Chart struct {
	Window models.Window
	AsOf   time.Time
	Lines  []models.ChangeHistory
}

// Renderer draws a Chart and returns the path of the written file.
type Renderer interface {
	Render(c Chart) (string, error)
}

// Options configures the PNG renderer.
type Options struct {
	OutputDir string
	WidthIn   float64
	HeightIn  float64
}

type pngRenderer struct {
	outputDir string
	width     vg.Length
	height    vg.Length
}

// NewPNGRenderer returns a Renderer writing PNG files under
// <OutputDir>/<YYYY-MM-DD>/<CODE>_performance.png.
func NewPNGRenderer(opts Options) Renderer {
	if opts.WidthIn <= 0 {
		opts.WidthIn = DefaultWidthIn
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = DefaultHeightIn
	}
	return &pngRenderer{
		outputDir: opts.OutputDir,
		width:     vg.Length(opts.WidthIn) * vg.Inch,
		height:    vg.Length(opts.HeightIn) * vg.Inch,
	}
}

// Path returns where the chart for window w on asOf is written.
func Path(outputDir string, w models.Window, asOf time.Time) string {
	return filepath.Join(outputDir, asOf.Format(time.DateOnly), w.Code+fileSuffix)
}

// Render draws one line per ranked security (change in percent against date)
// and saves the PNG, creating the dated directory when absent.
func (r *pngRenderer) Render(c Chart) (string, error) {
	path := Path(r.outputDir, c.Window, c.AsOf)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutputPath, err)
	}

	p, err := build(c)
	if err != nil {
		return "", err
	}

	if err := p.Save(r.width, r.height, path); err != nil {
		return "", fmt.Errorf("%w: save %s: %w", ErrOutputPath, path, err)
	}
	return path, nil
}

func build(c Chart) (*plot.Plot, error) {
	day := c.AsOf.Format(time.DateOnly)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Returns on %s", c.Window.Name, day)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = fmt.Sprintf("%s Return", c.Window.Name)

	p.X.Tick.Marker = plot.TimeTicks{Format: time.DateOnly}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Legend.Top = c.Window.LegendTop
	p.Legend.Left = c.Window.LegendLeft
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, h := range c.Lines {
		if len(h.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(points(h))
		if err != nil {
			return nil, fmt.Errorf("line for %s: %w", h.Symbol, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(h.Symbol, line)
		drawn++
	}

	// empty rankings still produce a dated, labelled chart
	if drawn == 0 {
		x := float64(c.AsOf.Unix())
		p.X.Min, p.X.Max = x-86400, x+86400
		p.Y.Min, p.Y.Max = -1, 1
	}
	return p, nil
}

func points(h models.ChangeHistory) plotter.XYs {
	xys := make(plotter.XYs, len(h.Points))
	for i, pt := range h.Points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Percent
	}
	return xys
}
