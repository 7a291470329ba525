package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricSummary describes one metric column of the cleaned table.
type MetricSummary struct {
	Name   string
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

// Summarize computes count, mean, sample standard deviation, median and range. NaN values are skipped.
func Summarize(name string, samples []float64) (MetricSummary, error) {
	xs := finite(samples)
	if len(xs) == 0 {
		return MetricSummary{Name: name}, fmt.Errorf("summarize %s: %w", name, ErrEmptySample)
	}
	sort.Float64s(xs)
	s := MetricSummary{
		Name:   name,
		N:      len(xs),
		Mean:   stat.Mean(xs, nil),
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s, nil
}

func (s MetricSummary) String() string {
	return fmt.Sprintf("[%s] n=%d mean=%.2f sd=%.2f median=%.2f min=%.2f max=%.2f",
		s.Name, s.N, s.Mean, s.StdDev, s.Median, s.Min, s.Max)
}
