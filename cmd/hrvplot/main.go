// hrvplot renders HRV trend charts from an HRV4Training CSV export.
//
// For every chart in the profile (resting HR, HRV recovery points and rMSSD by default) it writes
// a two-panel figure: the metric against time on the left, its distribution with a kernel density
// curve on the right. Without flags it uses the default Dropbox locations:
//
//	~/Dropbox/Apps/HRV4Training/MyMeasurements_Android.csv -> ~/Dropbox/code/hrv4t_analysis/plots/
//
// Every chart is written as <name>.svg; there is no PDF output (hr_against_time.svg replaces
// hr_against_time.pdf). Charts marked raster also get <name>.png at the figure size.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/iafilius/hrv4t-analysis/src/dataset"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML dataset profile (optional; defaults match the Android export)")
	dataPath := flag.String("data", "", "CSV export to plot (overrides csv_path)")
	outDir := flag.String("out", "", "Directory for the chart files (overrides out_dir)")
	charts := flag.String("charts", "", "Comma separated chart names to render (default all)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	dataset.SetLogLevel(*logLevel)
	os.Exit(exitCode(run(*configPath, *dataPath, *outDir, *charts)))
}

// exitCode logs a failed run and returns the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	dataset.Errorf("%v", err)
	return 1
}

func run(configPath, dataPath, outDir, charts string) error {
	start := time.Now()
	defer dataset.TimeTrack(start, "hrvplot")

	p, err := loadProfile(configPath, dataPath, outDir)
	if err != nil {
		return err
	}
	if charts != "" {
		if p, err = p.SelectCharts(strings.Split(charts, ",")); err != nil {
			return err
		}
	}
	csvPath, err := dataset.ExpandHome(p.CSVPath)
	if err != nil {
		return err
	}
	dir, err := dataset.ExpandHome(p.OutDir)
	if err != nil {
		return err
	}
	tbl, err := dataset.Load(csvPath, p)
	if err != nil {
		return fmt.Errorf("load %s: %w", csvPath, err)
	}
	written, err := RenderAll(tbl, p, dir)
	for _, path := range written {
		fmt.Printf("%s %s\n", color.GreenString("wrote"), path)
	}
	return err
}

// loadProfile returns the default profile or the one at configPath, with path overrides applied.
func loadProfile(configPath, dataPath, outDir string) (dataset.Profile, error) {
	p := dataset.DefaultProfile()
	if configPath != "" {
		var err error
		if p, err = dataset.LoadProfile(configPath); err != nil {
			return p, err
		}
	}
	if dataPath != "" {
		p.CSVPath = dataPath
	}
	if outDir != "" {
		p.OutDir = outDir
	}
	return p, p.Validate()
}
