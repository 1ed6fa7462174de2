package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/SigSum/internal/signal"
)

// csvFormatter formats the analysis as a single CSV record
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

// CSVHeader is the header row written by the CSV formatter
var CSVHeader = []string{"source", "points", "average", "minimum", "maximum", "trend", "signal"}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	a := report.Analysis
	record := []string{
		report.Source,
		strconv.Itoa(len(report.Signal)),
		strconv.FormatFloat(a.Average, 'f', -1, 64),
		strconv.Itoa(a.Minimum),
		strconv.Itoa(a.Maximum),
		a.Trend.String(),
		signal.Format(report.Signal),
	}
	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
