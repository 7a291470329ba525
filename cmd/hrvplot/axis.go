package main

import (
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxDateTicks caps the monthly ticks; longer histories label every Nth month.
const maxDateTicks = 18

// gridStyle is a light grid (black at ~30% opacity).
func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: drawing.Color{R: 0, G: 0, B: 0, A: 77},
		StrokeWidth: 0.8,
	}
}

// buildDateAxis returns the x axis for a date series: monthly ticks labelled YYYY-MM, rotated,
// with a light grid and 5% margin on both sides of the observed span.
func buildDateAxis(dates []time.Time) chart.XAxis {
	if len(dates) == 0 {
		return chart.XAxis{Name: "date"}
	}
	minT, maxT := dates[0], dates[0]
	for _, t := range dates[1:] {
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
	}
	// Ensure non-zero X range even when every row shares one date
	pad := time.Duration(float64(maxT.Sub(minT)) * 0.05)
	if pad < 24*time.Hour {
		pad = 24 * time.Hour
	}
	lo, hi := chart.TimeToFloat64(minT.Add(-pad)), chart.TimeToFloat64(maxT.Add(pad))
	ticks := spanTicks(monthTicks(minT.Add(-pad), maxT.Add(pad)), lo, hi)
	return chart.XAxis{
		Name:           "date",
		Ticks:          ticks,
		Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		TickStyle:      chart.Style{TextRotationDegrees: 15},
		GridLines:      gridLines(ticks, lo, hi),
		GridMajorStyle: gridStyle(),
		GridMinorStyle: gridStyle(),
	}
}

// spanTicks pads ticks with unlabelled end ticks at lo and hi. go-chart takes an axis range from
// its tick span whenever ticks are set, so the ticks must cover the whole range.
func spanTicks(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	eps := (hi - lo) * 1e-9
	out := make([]chart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > lo+eps {
		out = append(out, chart.Tick{Value: lo})
	}
	out = append(out, ticks...)
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < hi-eps {
		out = append(out, chart.Tick{Value: hi})
	}
	// snap ticks that land within rounding error of an end
	out[0].Value = lo
	out[len(out)-1].Value = hi
	return out
}

// gridLines returns one light grid line per labelled tick strictly inside (lo, hi).
func gridLines(ticks []chart.Tick, lo, hi float64) []chart.GridLine {
	eps := (hi - lo) * 1e-9
	var out []chart.GridLine
	for _, t := range ticks {
		if t.Label == "" || t.Value <= lo+eps || t.Value >= hi-eps {
			continue
		}
		out = append(out, chart.GridLine{Style: gridStyle(), Value: t.Value})
	}
	return out
}

// monthTicks returns a tick on the first day of each month inside [minT, maxT]. When the range
// holds no month start, both ends are labelled with the full date instead.
func monthTicks(minT, maxT time.Time) []chart.Tick {
	start := time.Date(minT.Year(), minT.Month(), 1, 0, 0, 0, 0, minT.Location())
	if start.Before(minT) {
		start = start.AddDate(0, 1, 0)
	}
	if start.After(maxT) {
		return []chart.Tick{
			{Value: chart.TimeToFloat64(minT), Label: minT.Format("2006-01-02")},
			{Value: chart.TimeToFloat64(maxT), Label: maxT.Format("2006-01-02")},
		}
	}
	months := (maxT.Year()-start.Year())*12 + int(maxT.Month()) - int(start.Month()) + 1
	step := 1
	for months > step*maxDateTicks {
		step++
	}
	ticks := []chart.Tick{}
	for t := start; !t.After(maxT); t = t.AddDate(0, step, 0) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format("2006-01")})
	}
	return ticks
}

// valueBounds returns min and max over every finite value of the given slices.
func valueBounds(sets ...[]float64) (float64, float64, bool) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, set := range sets {
		for _, v := range set {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, lo != math.MaxFloat64
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	// round to the tick magnitude so the axis ends on a labelled value
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if mag >= 10 {
		mag /= 2
	} else {
		mag /= 5
	}
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n desired tick marks inside [min, max] using nice increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// Preferred tick steps: 1, 2, 2.5, 5, 10 ... scaled by power of 10
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	eps := bestStep * 1e-9
	start := math.Ceil((min-eps)/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= max+eps; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-9 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
