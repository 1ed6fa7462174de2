package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SigSum/internal/signal"
)

// Report is one analyzed signal
type Report struct {
	Signal      []int
	Analysis    signal.Analysis
	Source      string // where the signal came from: argument, file path, stdin
	GeneratedAt time.Time
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Formats lists the accepted output format names
var Formats = []string{"text", "json", "markdown", "csv"}

// New returns the formatter for a format name
func New(format string, color, emoji bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTerminal(color, emoji), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// maxSignalPreview bounds how many points text outputs print
const maxSignalPreview = 20

// previewSignal renders at most maxSignalPreview points
func previewSignal(data []int) string {
	if len(data) <= maxSignalPreview {
		return signal.Format(data)
	}
	return fmt.Sprintf("%s, ... (%d more)", signal.Format(data[:maxSignalPreview]), len(data)-maxSignalPreview)
}

// averagePosition places the average between minimum and maximum, in [0,1]
func averagePosition(a signal.Analysis) (float64, bool) {
	if a.Maximum <= a.Minimum {
		return 0, false
	}
	pos := (a.Average - float64(a.Minimum)) / float64(a.Maximum-a.Minimum)
	return min(max(pos, 0), 1), true
}

// describeTrend is the one-line reading of a trend
func describeTrend(t signal.Trend) string {
	switch t {
	case signal.TrendAscending:
		return "The signal ends higher than it starts."
	case signal.TrendDescending:
		return "The signal ends lower than it starts."
	default:
		return "The signal ends where it starts."
	}
}
