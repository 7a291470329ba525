// Package analysis holds the statistics behind the charts: a Gaussian kernel density estimate
// for the smoothed overlay, a normalized histogram, and per-metric summaries.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrEmptySample is returned when a statistic is requested over no values.
	ErrEmptySample = errors.New("empty sample")
	// ErrZeroVariance is returned when all samples are equal; the kernel bandwidth would be zero.
	ErrZeroVariance = errors.New("sample has zero variance")
)

// GaussianKDE is a one-dimensional Gaussian kernel density estimate with Scott's bandwidth.
type GaussianKDE struct {
	samples   []float64
	bandwidth float64
}

// NewGaussianKDE fits the estimate. NaN samples are ignored.
func NewGaussianKDE(samples []float64) (*GaussianKDE, error) {
	xs := finite(samples)
	if len(xs) == 0 {
		return nil, ErrEmptySample
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrZeroVariance, len(xs))
	}
	sd := stat.StdDev(xs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, ErrZeroVariance
	}
	return &GaussianKDE{samples: xs, bandwidth: sd * ScottFactor(len(xs))}, nil
}

// ScottFactor is n^(-1/5).
func ScottFactor(n int) float64 {
	return math.Pow(float64(n), -1.0/5.0)
}

// Bandwidth returns the kernel standard deviation.
func (k *GaussianKDE) Bandwidth() float64 { return k.bandwidth }

// At returns the estimated density at x.
func (k *GaussianKDE) At(x float64) float64 {
	kernel := distuv.Normal{Mu: 0, Sigma: k.bandwidth}
	sum := 0.0
	for _, s := range k.samples {
		sum += kernel.Prob(x - s)
	}
	return sum / float64(len(k.samples))
}

// Evaluate returns the density at every point of xs.
func (k *GaussianKDE) Evaluate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = k.At(x)
	}
	return out
}

// DensityRange widens [min, max] of the samples by pad times each bound's magnitude.
// For positive data this is min*(1-pad) .. max*(1+pad).
func DensityRange(samples []float64, pad float64) (float64, float64, error) {
	xs := finite(samples)
	if len(xs) == 0 {
		return 0, 0, ErrEmptySample
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	return lo - math.Abs(lo)*pad, hi + math.Abs(hi)*pad, nil
}

// DensityCurve fits a KDE and evaluates it on points evenly spaced over DensityRange.
func DensityCurve(samples []float64, pad float64, points int) (grid, density []float64, err error) {
	if points < 2 {
		return nil, nil, fmt.Errorf("density curve needs at least 2 points, got %d", points)
	}
	kde, err := NewGaussianKDE(samples)
	if err != nil {
		return nil, nil, err
	}
	lo, hi, err := DensityRange(samples, pad)
	if err != nil {
		return nil, nil, err
	}
	grid = floats.Span(make([]float64, points), lo, hi)
	return grid, kde.Evaluate(grid), nil
}

func finite(samples []float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, v := range samples {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
