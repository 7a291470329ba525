package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = logrus.New()
	baseLogger.SetOutput(&buf)
	baseLogger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	t.Cleanup(func() { baseLogger = saved })
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[rMSSD] kept=212 of 230 rows (92.2% of input) mean=61.4 sd=9.8"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(92.2% of input)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!(NOVERB)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersDebug(t *testing.T) {
	buf := captureLogs(t)

	SetLogLevel("warning")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("level = %v, want warn", GetLogLevel())
	}
	Infof("hidden %d", 1)
	Debugf("hidden too")
	Warnf("visible %s", "warn")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info/debug leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "visible warn") {
		t.Fatalf("warn message missing: %s", out)
	}

	SetLogLevel("bogus")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level name changed level to %v", GetLogLevel())
	}

	SetLogLevel(" DEBUG ")
	TimeTrack(time.Now(), "load")
	if !strings.Contains(buf.String(), "load took") {
		t.Fatalf("TimeTrack output missing at debug level: %s", buf.String())
	}
}
