package signal

import (
	"encoding/json"
	"fmt"
)

// Trend classifies the overall direction of a signal
type Trend string

const (
	TrendAscending  Trend = "ascending"
	TrendDescending Trend = "descending"
	TrendStable     Trend = "stable"
)

// String returns the wire name of the trend
func (t Trend) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known trends
func (t Trend) IsValid() bool {
	switch t {
	case TrendAscending, TrendDescending, TrendStable:
		return true
	default:
		return false
	}
}

// ParseTrend converts a wire name into a Trend
func ParseTrend(s string) (Trend, error) {
	t := Trend(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown trend %q (must be one of: ascending, descending, stable)", s)
	}
	return t, nil
}

// UnmarshalJSON rejects trends the service does not define
func (t *Trend) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("trend must be a string: %w", err)
	}
	parsed, err := ParseTrend(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Analysis holds the summary statistics returned for a signal
type Analysis struct {
	Average float64 `json:"average" yaml:"average"`
	Minimum int     `json:"minimum" yaml:"minimum"`
	Maximum int     `json:"maximum" yaml:"maximum"`
	Trend   Trend   `json:"trend" yaml:"trend"`
}

// Request is the body sent to the analysis endpoint
type Request struct {
	Data []int `json:"data" binding:"required,min=1"`
}

// ValidationResult is the outcome of validating raw input.
// Message is empty when Valid is true.
type ValidationResult struct {
	Valid   bool
	Message string
}
