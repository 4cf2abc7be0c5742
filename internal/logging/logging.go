// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger to write to out at the given
// level and format. Unknown levels fall back to info; config validation
// rejects them before this point. Format is "json" or "text".
func Setup(out io.Writer, level, format string) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(newFormatter(format))
}

// ParseLevel maps a level name onto a logrus level. Supported levels are
// debug, info, warn (or warning) and error; an empty name means info.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, errors.Errorf("unknown log level %q", level)
	}
}

func newFormatter(format string) log.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return &log.JSONFormatter{}
	}
	return &log.TextFormatter{FullTimestamp: true}
}
