// Package signal parses, validates and formats comma-separated integer
// signals and defines the analysis result shared by client and server.
package signal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalNumber matches the accepted number grammar: sign, digits with an
// optional fraction, optional exponent. Words such as Infinity or NaN and
// hex literals never match.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Parse converts raw input into an ordered, non-empty slice of integers.
//
// The empty-slot check runs over every piece before any conversion is
// attempted, so "1,,abc" reports ErrEmptyValue. Conversion errors report the
// first offending piece only.
func Parse(input string) ([]int, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptySignal
	}

	parts := strings.Split(input, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	for _, part := range parts {
		if part == "" {
			return nil, ErrEmptyValue
		}
	}

	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, ok := parseInteger(part)
		if !ok {
			return nil, &ParseError{Kind: ErrNotAnInteger, Value: part}
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}

// parseInteger accepts whole, finite decimal numbers that fit in an int
func parseInteger(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	if !decimalNumber.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	// float64(MaxInt) rounds up to 2^63, so the upper bound is exclusive
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}

	return int(f), true
}

// Validate reports whether input parses, carrying the parse error message
// when it does not
func Validate(input string) ValidationResult {
	if _, err := Parse(input); err != nil {
		return ValidationResult{Valid: false, Message: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// Format renders numbers as "1, 2, 3"; an empty slice renders as ""
func Format(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
