// hrvinspect prints what the loader makes of an HRV4Training export: the normalized columns, the
// cleaning report and a summary of every charted metric. It renders nothing.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/iafilius/hrv4t-analysis/src/analysis"
	"github.com/iafilius/hrv4t-analysis/src/dataset"
)

func main() {
	var configPath, dataPath, logLevel string
	flag.StringVar(&configPath, "config", "", "Path to a YAML dataset profile (optional)")
	flag.StringVar(&dataPath, "data", "", "CSV export to inspect (overrides csv_path)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()

	dataset.SetLogLevel(logLevel)
	os.Exit(exitCode(inspect(os.Stdout, configPath, dataPath)))
}

// exitCode logs a failed run and returns the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	dataset.Errorf("%v", err)
	return 1
}

func inspect(w io.Writer, configPath, dataPath string) error {
	p := dataset.DefaultProfile()
	if configPath != "" {
		var err error
		if p, err = dataset.LoadProfile(configPath); err != nil {
			return err
		}
	}
	if dataPath != "" {
		p.CSVPath = dataPath
	}
	csvPath, err := dataset.ExpandHome(p.CSVPath)
	if err != nil {
		return err
	}
	tbl, err := dataset.Load(csvPath, p)
	if err != nil {
		return fmt.Errorf("load %s: %w", csvPath, err)
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("File:"), csvPath)
	fmt.Fprintf(w, "%s %v\n", bold("Columns:"), tbl.Columns())
	fmt.Fprintf(w, "%s %s\n", bold("Cleaning:"), tbl.Report)
	if tbl.Len() > 0 {
		fmt.Fprintf(w, "%s %s .. %s\n", bold("Dates:"), tbl.Dates[0].Format("2006-01-02"), tbl.Dates[tbl.Len()-1].Format("2006-01-02"))
	}
	for _, spec := range p.Charts {
		values, err := tbl.Metric(spec.Column)
		if err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", color.YellowString("skip"), spec.Column, err)
			continue
		}
		s, err := analysis.Summarize(spec.Column, values)
		if err != nil {
			fmt.Fprintf(w, "%s %v\n", color.YellowString("skip"), err)
			continue
		}
		fmt.Fprintln(w, s)
	}
	return nil
}
