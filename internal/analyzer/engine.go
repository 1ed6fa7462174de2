package analyzer

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/yildizm/SigSum/internal/signal"
)

// cancelCheckPeriod is how many points are scanned between context checks
const cancelCheckPeriod = 4096

// AnalyzerEngine implements the Analyzer interface
type AnalyzerEngine struct {
	cancelCheckPeriod int
}

func NewEngine() *AnalyzerEngine {
	return &AnalyzerEngine{
		cancelCheckPeriod: cancelCheckPeriod,
	}
}

// Analyze computes the mean, minimum, maximum and trend of data
func (e *AnalyzerEngine) Analyze(ctx context.Context, data []int) (*signal.Analysis, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	values := make(stats.Float64Data, len(data))
	minimum, maximum := data[0], data[0]
	for i, v := range data {
		if i%e.cancelCheckPeriod == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		values[i] = float64(v)
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
	}

	average, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average: %w", err)
	}

	return &signal.Analysis{
		Average: average,
		Minimum: minimum,
		Maximum: maximum,
		Trend:   DetermineTrend(data),
	}, nil
}

// DetermineTrend compares the total rise between successive points with the
// total fall. Rises minus falls telescopes to last minus first, so only the
// endpoints are compared. Fewer than two points is stable.
func DetermineTrend(data []int) signal.Trend {
	if len(data) < 2 {
		return signal.TrendStable
	}

	first, last := data[0], data[len(data)-1]
	switch {
	case last > first:
		return signal.TrendAscending
	case last < first:
		return signal.TrendDescending
	default:
		return signal.TrendStable
	}
}
