package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/SigSum/internal/signal"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Analysis    signal.Analysis `json:"analysis"`
	Points      int             `json:"points"`
	Signal      []int           `json:"signal"`
	Source      string          `json:"source,omitempty"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	out := JSONOutput{
		Analysis: report.Analysis,
		Points:   len(report.Signal),
		Signal:   report.Signal,
		Source:   report.Source,
	}
	if out.Signal == nil {
		out.Signal = []int{}
	}
	if !report.GeneratedAt.IsZero() {
		ts := report.GeneratedAt.UTC()
		out.GeneratedAt = &ts
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
