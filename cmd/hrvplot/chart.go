package main

import (
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/hrv4t-analysis/src/analysis"
	"github.com/iafilius/hrv4t-analysis/src/dataset"
)

// palette is the colour-blind safe palette shared by all charts:
// [0] scatter points, [1] density curve, [2] histogram bars.
var palette = [8]drawing.Color{
	rgb(0, 0, 0),
	rgb(0.9, 0.6, 0),
	rgb(0.35, 0.7, 0.9),
	rgb(0, 0.6, 0.5),
	rgb(0.95, 0.9, 0.25),
	rgb(0, 0.45, 0.7),
	rgb(0.8, 0.4, 0),
	rgb(0.8, 0.6, 0.7),
}

func rgb(r, g, b float64) drawing.Color {
	return drawing.Color{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
}

var frameColor = drawing.Color{R: 40, G: 40, B: 40, A: 255}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 1,
		DotWidth:    3,
		DotColor:    col,
	}
}

// marginalWidth is the pixel width of the histogram panel: its share of the plotting area
// (about 77.5% of the figure width) under the figure's width ratios.
func marginalWidth(fig dataset.Figure) int {
	left, right := fig.WidthRatios[0], fig.WidthRatios[1]
	return int(float64(fig.Width) * 0.775 * right / (left + right))
}

// metricChart is one configured chart with the statistics it was built from.
type metricChart struct {
	spec    dataset.ChartSpec
	summary analysis.MetricSummary
	chart   chart.Chart
}

// buildMetricChart lays out the two-panel figure for one metric: a date scatter on the left and
// the marginal histogram with its density curve on the right, sharing one y range.
func buildMetricChart(tbl *dataset.Table, spec dataset.ChartSpec, fig dataset.Figure) (*metricChart, error) {
	values, err := tbl.Metric(spec.Column)
	if err != nil {
		return nil, err
	}
	grid, density, err := analysis.DensityCurve(values, fig.DensityPad, fig.DensityPoints)
	if err != nil {
		return nil, fmt.Errorf("density of %s: %w", spec.Column, err)
	}
	hist, err := analysis.NewHistogram(values, fig.Bins)
	if err != nil {
		return nil, fmt.Errorf("histogram of %s: %w", spec.Column, err)
	}
	summary, err := analysis.Summarize(spec.Column, values)
	if err != nil {
		return nil, err
	}

	// scatter skips rows with a missing value
	xs := make([]time.Time, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, tbl.Dates[i])
		ys = append(ys, v)
	}

	lo, hi, _ := valueBounds(ys, grid)
	yMin, yMax := niceAxisBounds(lo, hi)
	yTicks := spanTicks(niceTicks(yMin, yMax, 6), yMin, yMax)

	label := spec.Label
	if label == "" {
		label = spec.Column
	}
	panelW := marginalWidth(fig)
	ch := chart.Chart{
		Width:  fig.Width,
		Height: fig.Height,
		DPI:    fig.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 16, Right: panelW + 16, Bottom: 12},
		},
		XAxis: buildDateAxis(xs),
		// The primary axis sits on the right edge, where the histogram panel goes. It stays hidden
		// but carries the ticks too: go-chart sizes the secondary range from the primary ticks.
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: yTicks,
		},
		YAxisSecondary: chart.YAxis{
			Name:           label,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks:          yTicks,
			GridLines:      gridLines(yTicks, yMin, yMax),
			GridMajorStyle: gridStyle(),
			GridMinorStyle: gridStyle(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    label,
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(palette[0]),
			},
			marginalHistogram{
				Name:       label + " distribution",
				Width:      panelW,
				Hist:       hist,
				Grid:       grid,
				Density:    density,
				BarColor:   palette[2],
				CurveColor: palette[1],
			},
		},
		Elements: []chart.Renderable{canvasFrame(frameColor)},
	}
	return &metricChart{spec: spec, summary: summary, chart: ch}, nil
}

// canvasFrame outlines the scatter panel.
func canvasFrame(col drawing.Color) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		strokeBox(r, canvasBox, col, 1)
	}
}

// marginalHistogram draws a horizontal density histogram and its KDE curve in a panel glued to
// the right edge of the canvas. It translates values through the same y range as the scatter,
// so both panels share one y axis. It does not take part in range computation.
type marginalHistogram struct {
	Name       string
	Width      int
	Hist       analysis.Histogram
	Grid       []float64
	Density    []float64
	BarColor   drawing.Color
	CurveColor drawing.Color
}

func (m marginalHistogram) GetName() string           { return m.Name }
func (m marginalHistogram) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (m marginalHistogram) GetStyle() chart.Style     { return chart.Style{} }

func (m marginalHistogram) Validate() error {
	if m.Width <= 0 {
		return fmt.Errorf("marginal histogram %q: width must be positive", m.Name)
	}
	if len(m.Hist.Edges) != len(m.Hist.Density)+1 || len(m.Hist.Density) == 0 {
		return fmt.Errorf("marginal histogram %q: malformed bins", m.Name)
	}
	if len(m.Grid) != len(m.Density) {
		return fmt.Errorf("marginal histogram %q: density curve has %d points for %d grid values", m.Name, len(m.Density), len(m.Grid))
	}
	return nil
}

// densityScale is the largest density shown, with a little headroom.
func (m marginalHistogram) densityScale() float64 {
	top := m.Hist.MaxDensity()
	for _, d := range m.Density {
		if d > top {
			top = d
		}
	}
	return top * 1.05
}

func (m marginalHistogram) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, s chart.Style) {
	panel := chart.Box{Top: canvasBox.Top, Bottom: canvasBox.Bottom, Left: canvasBox.Right, Right: canvasBox.Right + m.Width}
	scale := m.densityScale()
	if scale <= 0 {
		strokeBox(r, panel, frameColor, 1)
		return
	}
	toX := func(d float64) int { return panel.Left + int(math.Round(d/scale*float64(panel.Width()))) }
	toY := func(v float64) int { return canvasBox.Bottom - yrange.Translate(v) }

	for i, d := range m.Hist.Density {
		if d <= 0 {
			continue
		}
		bar := chart.Box{Top: toY(m.Hist.Edges[i+1]), Bottom: toY(m.Hist.Edges[i]), Left: panel.Left, Right: toX(d)}
		fillBox(r, bar, m.BarColor)
	}

	if len(m.Grid) > 1 {
		r.SetStrokeColor(m.CurveColor)
		r.SetStrokeWidth(1.5)
		r.MoveTo(toX(m.Density[0]), toY(m.Grid[0]))
		for i := 1; i < len(m.Grid); i++ {
			r.LineTo(toX(m.Density[i]), toY(m.Grid[i]))
		}
		r.Stroke()
	}
	strokeBox(r, panel, frameColor, 1)
}

func boxPath(r chart.Renderer, b chart.Box) {
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
}

func fillBox(r chart.Renderer, b chart.Box, col drawing.Color) {
	r.SetFillColor(col)
	r.SetStrokeColor(col)
	r.SetStrokeWidth(0.5)
	boxPath(r, b)
	r.FillStroke()
}

func strokeBox(r chart.Renderer, b chart.Box, col drawing.Color, width float64) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(width)
	boxPath(r, b)
	r.Stroke()
}
