package analyzer

import (
	"context"
	"errors"

	"github.com/yildizm/SigSum/internal/signal"
)

// ErrEmptyData is returned when there is nothing to analyze
var ErrEmptyData = errors.New("data array cannot be empty")

// Analyzer computes summary statistics for a signal
type Analyzer interface {
	// Analyze returns average, bounds and trend of data
	Analyze(ctx context.Context, data []int) (*signal.Analysis, error)
}
