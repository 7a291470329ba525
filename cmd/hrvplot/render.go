package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/hrv4t-analysis/src/dataset"
)

// RenderAll renders every chart of the profile into outDir and returns the written paths in order.
// It runs headlessly and stops at the first chart that fails.
func RenderAll(tbl *dataset.Table, p dataset.Profile, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	var written []string
	for _, spec := range p.Charts {
		paths, err := renderMetricChart(tbl, spec, p.Figure, outDir)
		if err != nil {
			return written, fmt.Errorf("chart %s: %w", spec.Name, err)
		}
		written = append(written, paths...)
	}
	return written, nil
}

// renderMetricChart renders one chart to <name>.svg and, for raster specs, <name>.png.
// Nothing is written unless every requested format rendered.
func renderMetricChart(tbl *dataset.Table, spec dataset.ChartSpec, fig dataset.Figure, outDir string) ([]string, error) {
	start := time.Now()
	defer dataset.TimeTrack(start, "render "+spec.Name)

	mc, err := buildMetricChart(tbl, spec, fig)
	if err != nil {
		return nil, err
	}
	dataset.Infof("%s", mc.summary)

	type output struct {
		path string
		data []byte
	}
	var outputs []output

	var svg bytes.Buffer
	if err := mc.chart.Render(chart.SVG, &svg); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	outputs = append(outputs, output{filepath.Join(outDir, spec.Name+".svg"), svg.Bytes()})

	if spec.Raster {
		b, err := renderRaster(mc)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output{filepath.Join(outDir, spec.Name+".png"), b})
	}

	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := os.WriteFile(o.path, o.data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", o.path, err)
		}
		dataset.Debugf("wrote %s (%d bytes)", o.path, len(o.data))
		paths = append(paths, o.path)
	}
	return paths, nil
}

// renderRaster renders the PNG copy, stamping the summary caption when requested.
func renderRaster(mc *metricChart) ([]byte, error) {
	var buf bytes.Buffer
	if err := mc.chart.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	if !mc.spec.Caption {
		return buf.Bytes(), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("png decode: %w", err)
	}
	s := mc.summary
	img = drawFootnote(img, fmt.Sprintf("n=%d  mean=%.1f  sd=%.1f", s.N, s.Mean, s.StdDev))
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return out.Bytes(), nil
}
