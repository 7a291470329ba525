package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile_MatchesAndroidExport(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())
	assert.Equal(t, []int{3, 44}, p.ExcludeRows)
	assert.Equal(t, []string{"HR"}, p.ZeroSentinelColumns)
	assert.Equal(t, "2006-2-1", p.DateLayout)
	require.Len(t, p.Charts, 3)
	assert.Equal(t, "hr_against_time", p.Charts[0].Name)
	assert.Equal(t, "HRV4T_Recovery_Points", p.Charts[1].Column)
	assert.True(t, p.Charts[2].Raster, "rMSSD chart also goes out as PNG")
	assert.Equal(t, 20, p.Figure.Bins)
	assert.Equal(t, [2]float64{3, 1}, p.Figure.WidthRatios)
}

func TestLoadProfile_OverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	doc := `
csv_path: /data/export.csv
exclude_rows: []
figure:
  bins: 30
  width_ratios: [4, 1]
charts:
  - column: rMSSD
    label: rMSSD (ms)
    name: rmssd
    raster: true
    caption: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/export.csv", p.CSVPath)
	assert.Empty(t, p.ExcludeRows)
	assert.Equal(t, DefaultProfile().OutDir, p.OutDir)
	assert.Equal(t, "date", p.DateColumn)
	assert.Equal(t, 30, p.Figure.Bins)
	assert.Equal(t, 700, p.Figure.Width)
	assert.Equal(t, [2]float64{4, 1}, p.Figure.WidthRatios)
	require.Len(t, p.Charts, 1)
	assert.True(t, p.Charts[0].Caption)
}

func TestLoadProfile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadProfile(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("exclude_rows: [-1]\n"), 0o644))
	_, err = LoadProfile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("charts: {"), 0o644))
	_, err = LoadProfile(broken)
	require.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
		errMsg string
	}{
		{"duplicate chart names", func(p *Profile) { p.Charts[1].Name = p.Charts[0].Name }, "duplicate name"},
		{"chart without column", func(p *Profile) { p.Charts[0].Column = "" }, "column and name are required"},
		{"empty date layout", func(p *Profile) { p.DateLayout = " " }, "date_layout"},
		{"zero bins", func(p *Profile) { p.Figure.Bins = 0 }, "bins"},
		{"tiny figure", func(p *Profile) { p.Figure.Width = 50 }, "at least 200x150"},
		{"one density point", func(p *Profile) { p.Figure.DensityPoints = 1 }, "density_points"},
		{"negative pad", func(p *Profile) { p.Figure.DensityPad = -0.1 }, "density_pad"},
		{"zero ratio", func(p *Profile) { p.Figure.WidthRatios = [2]float64{3, 0} }, "width_ratios"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSelectCharts(t *testing.T) {
	p := DefaultProfile()
	got, err := p.SelectCharts([]string{"rmssd_against_time", " hr_against_time"})
	require.NoError(t, err)
	require.Len(t, got.Charts, 2)
	assert.Equal(t, "rmssd_against_time", got.Charts[0].Name)
	assert.Equal(t, "hr_against_time", got.Charts[1].Name)
	assert.Len(t, p.Charts, 3, "selection must not modify the receiver")

	all, err := p.SelectCharts(nil)
	require.NoError(t, err)
	assert.Len(t, all.Charts, 3)

	_, err = p.SelectCharts([]string{"sdnn"})
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err := ExpandHome("~/Dropbox/plots")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Dropbox/plots"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandHome("~user/x")
	require.NoError(t, err)
	assert.Equal(t, "~user/x", got)
}
