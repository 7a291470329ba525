package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/iafilius/hrv4t-analysis/src/dataset"
)

func writeExport(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("date, HR, HRV4T_Recovery_Points, rMSSD\n")
	start := time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		hr := 55 + i%4
		if i == 10 {
			hr = 0
		}
		fmt.Fprintf(&b, "%s, %d, %.1f, %d\n", start.AddDate(0, 0, i).Format("2006-02-01"), hr, 8.0, 60+i%5)
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func TestInspect_PrintsReportAndSummaries(t *testing.T) {
	color.NoColor = true
	dataset.SetLogLevel("error")
	var out bytes.Buffer
	if err := inspect(&out, "", writeExport(t, 50)); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Columns: [date HR HRV4T_Recovery_Points rMSSD]",
		"read=50 excluded=2 zero_dropped=[HR=1] kept=47",
		"Dates: 2019-03-01 ..",
		"[HR] n=47",
		"[rMSSD] n=47",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	// constant metric still summarizes
	if !strings.Contains(text, "[HRV4T_Recovery_Points] n=47 mean=8.00 sd=0.00") {
		t.Errorf("expected constant recovery points summary:\n%s", text)
	}
}

func TestInspect_MissingFile(t *testing.T) {
	dataset.SetLogLevel("error")
	var out bytes.Buffer
	err := inspect(&out, "", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatalf("expected an error for a missing export")
	}

	var logs bytes.Buffer
	dataset.SetLogOutput(&logs)
	defer dataset.SetLogOutput(os.Stderr)
	if code := exitCode(err); code != 1 {
		t.Fatalf("exitCode = %d, want 1", code)
	}
	if !strings.Contains(logs.String(), "level=error") || !strings.Contains(logs.String(), "missing.csv") {
		t.Fatalf("error must go through the logger, got %q", logs.String())
	}
	if code := exitCode(nil); code != 0 {
		t.Fatalf("exitCode(nil) = %d, want 0", code)
	}
}
