package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChartSpec names one metric chart: which column to plot, how to label it and the output file stem.
type ChartSpec struct {
	Column string `yaml:"column"`
	Label  string `yaml:"label"`
	Name   string `yaml:"name"`
	// Raster also writes a PNG next to the SVG.
	Raster bool `yaml:"raster"`
	// Caption stamps a summary footnote (n, mean, sd) onto the raster copy.
	Caption bool `yaml:"caption"`
}

// Figure holds the layout shared by every chart.
type Figure struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	DPI    float64 `yaml:"dpi"`
	// WidthRatios is scatter:histogram panel width.
	WidthRatios   [2]float64 `yaml:"width_ratios"`
	Bins          int        `yaml:"bins"`
	DensityPoints int        `yaml:"density_points"`
	// DensityPad widens the density grid beyond the observed min/max by this fraction.
	DensityPad float64 `yaml:"density_pad"`
}

// Profile describes one CSV export and the charts drawn from it.
type Profile struct {
	CSVPath    string `yaml:"csv_path"`
	OutDir     string `yaml:"out_dir"`
	DateColumn string `yaml:"date_column"`
	// DateLayout is a Go time layout. The HRV4Training Android export writes year-day-month; the
	// default accepts day and month with or without a leading zero.
	DateLayout string `yaml:"date_layout"`
	// ExcludeRows are 0-based data row positions (header not counted) dropped before any other
	// filter. The defaults are two corrupt records of one specific export snapshot; set to an
	// empty list for any other file.
	ExcludeRows []int `yaml:"exclude_rows"`
	// ZeroSentinelColumns drop a row when the column equals zero (the app writes 0 for a missed reading).
	ZeroSentinelColumns []string    `yaml:"zero_sentinel_columns"`
	Charts              []ChartSpec `yaml:"charts"`
	Figure              Figure      `yaml:"figure"`
}

// DefaultProfile returns the profile of the HRV4Training Android export in its Dropbox app folder.
func DefaultProfile() Profile {
	return Profile{
		CSVPath:             "~/Dropbox/Apps/HRV4Training/MyMeasurements_Android.csv",
		OutDir:              "~/Dropbox/code/hrv4t_analysis/plots",
		DateColumn:          "date",
		DateLayout:          "2006-2-1",
		ExcludeRows:         []int{3, 44},
		ZeroSentinelColumns: []string{"HR"},
		Charts: []ChartSpec{
			{Column: "HR", Label: "Resting HR", Name: "hr_against_time"},
			{Column: "HRV4T_Recovery_Points", Label: "HRV recovery points", Name: "hrv_against_time"},
			{Column: "rMSSD", Label: "rMSSD", Name: "rmssd_against_time", Raster: true},
		},
		Figure: DefaultFigure(),
	}
}

// DefaultFigure is a 7x5 inch figure at 100 dpi with a 3:1 panel split.
func DefaultFigure() Figure {
	return Figure{
		Width:         700,
		Height:        500,
		DPI:           100,
		WidthRatios:   [2]float64{3, 1},
		Bins:          20,
		DensityPoints: 50,
		DensityPad:    0.05,
	}
}

// LoadProfile reads a YAML profile. Keys absent from the file keep their default values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks that the profile can drive a run.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.CSVPath) == "" {
		return fmt.Errorf("csv_path must be set")
	}
	if strings.TrimSpace(p.OutDir) == "" {
		return fmt.Errorf("out_dir must be set")
	}
	if strings.TrimSpace(p.DateColumn) == "" {
		return fmt.Errorf("date_column must be set")
	}
	if strings.TrimSpace(p.DateLayout) == "" {
		return fmt.Errorf("date_layout must be set")
	}
	for _, r := range p.ExcludeRows {
		if r < 0 {
			return fmt.Errorf("exclude_rows cannot contain negative positions (got %d)", r)
		}
	}
	names := map[string]bool{}
	for i, c := range p.Charts {
		if c.Column == "" || c.Name == "" {
			return fmt.Errorf("charts[%d]: column and name are required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("charts[%d]: duplicate name %q", i, c.Name)
		}
		names[c.Name] = true
	}
	return p.Figure.Validate()
}

// Validate checks figure dimensions and statistics settings.
func (f Figure) Validate() error {
	if f.Width < 200 || f.Height < 150 {
		return fmt.Errorf("figure must be at least 200x150 (got %dx%d)", f.Width, f.Height)
	}
	if f.DPI <= 0 {
		return fmt.Errorf("figure dpi must be positive (got %v)", f.DPI)
	}
	if f.WidthRatios[0] <= 0 || f.WidthRatios[1] <= 0 {
		return fmt.Errorf("width_ratios must be positive (got %v)", f.WidthRatios)
	}
	if f.Bins < 1 {
		return fmt.Errorf("bins must be at least 1 (got %d)", f.Bins)
	}
	if f.DensityPoints < 2 {
		return fmt.Errorf("density_points must be at least 2 (got %d)", f.DensityPoints)
	}
	if f.DensityPad < 0 {
		return fmt.Errorf("density_pad cannot be negative (got %v)", f.DensityPad)
	}
	return nil
}

// SelectCharts keeps only the charts whose Name is listed. An empty list keeps all.
func (p Profile) SelectCharts(names []string) (Profile, error) {
	if len(names) == 0 {
		return p, nil
	}
	byName := map[string]ChartSpec{}
	for _, c := range p.Charts {
		byName[c.Name] = c
	}
	out := p
	out.Charts = nil
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		c, ok := byName[n]
		if !ok {
			return p, fmt.Errorf("unknown chart %q", n)
		}
		out.Charts = append(out.Charts, c)
	}
	return out, nil
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
