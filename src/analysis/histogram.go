package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width binning of a sample. Edges has one more entry than Counts.
type Histogram struct {
	Edges   []float64
	Counts  []float64
	Density []float64
}

// NewHistogram bins samples into equal-width bins over [min, max]; the last bin is closed so the
// maximum is counted. Density is normalized so that the bars integrate to 1.
func NewHistogram(samples []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("histogram needs at least 1 bin, got %d", bins)
	}
	xs := finite(samples)
	if len(xs) == 0 {
		return Histogram{}, ErrEmptySample
	}
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram treats the last divider as exclusive.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	width := (hi - lo) / float64(bins)
	n := float64(len(xs))
	density := make([]float64, bins)
	for i, c := range counts {
		density[i] = c / (n * width)
	}
	return Histogram{Edges: edges, Counts: counts, Density: density}, nil
}

// Bins returns the number of bins.
func (h Histogram) Bins() int { return len(h.Counts) }

// MaxDensity returns the tallest normalized bar.
func (h Histogram) MaxDensity() float64 {
	if len(h.Density) == 0 {
		return 0
	}
	return floats.Max(h.Density)
}
