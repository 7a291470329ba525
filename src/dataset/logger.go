package dataset

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents severity.
type LogLevel = logrus.Level

const (
	LevelDebug LogLevel = logrus.DebugLevel
	LevelInfo  LogLevel = logrus.InfoLevel
	LevelWarn  LogLevel = logrus.WarnLevel
	LevelError LogLevel = logrus.ErrorLevel
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var baseLogger = newBaseLogger()

func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(LevelInfo)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return l
}

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	baseLogger.SetLevel(l)
}

// SetLogOutput redirects log output (stderr by default).
func SetLogOutput(w io.Writer) { baseLogger.SetOutput(w) }

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return baseLogger.GetLevel() }

func logf(l LogLevel, format string, args ...interface{}) {
	// A message without args is logged verbatim so literal % characters survive.
	if len(args) == 0 {
		baseLogger.Log(l, format)
		return
	}
	baseLogger.Logf(l, format, args...)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
