// Package logging builds the leveled loggers shared by the CLI and the
// drivetrain.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const Prefix = "diffdrive"

var levelColors = map[log.Level]string{
	log.DebugLevel: "63",
	log.InfoLevel:  "86",
	log.WarnLevel:  "192",
	log.ErrorLevel: "204",
	log.FatalLevel: "134",
}

// New returns a logger writing to w at the named level
// (debug, info, warn, error or fatal).
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          Prefix,
		Level:           lvl,
	})

	styles := log.DefaultStyles()
	for l, color := range levelColors {
		styles.Levels[l] = lipgloss.NewStyle().
			SetString(strings.ToUpper(l.String())).
			Bold(true).
			MaxWidth(5).
			Foreground(lipgloss.Color(color))
	}
	logger.SetStyles(styles)
	return logger, nil
}

// Discard is a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
