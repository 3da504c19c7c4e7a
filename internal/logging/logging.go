// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	clog "github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (*clog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return clog.NewWithOptions(w, clog.Options{
		Prefix:          "recite",
		Level:           lvl,
		ReportTimestamp: lvl <= clog.DebugLevel,
	}), nil
}

// ParseLevel maps a level name to a log level. Empty means DefaultLevel.
func ParseLevel(level string) (clog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := clog.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
