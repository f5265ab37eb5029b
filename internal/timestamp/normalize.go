// Package timestamp converts the loosely-typed next claim value returned by
// the reward API into epoch milliseconds.
package timestamp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SecondsThreshold separates epoch seconds from epoch milliseconds.
// Values below it are seconds; anything at or above is milliseconds.
const SecondsThreshold = 10_000_000_000

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseError reports a value that could not be normalized. Raw holds the
// input as received.
type ParseError struct {
	Raw    any
	Reason string
}

func (e *ParseError) Error() string {
	raw, err := json.Marshal(e.Raw)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", e.Raw))
	}
	return fmt.Sprintf("cannot parse next claim time %s: %s", raw, e.Reason)
}

// Normalize returns the epoch-millisecond instant described by value.
// Numbers use the seconds threshold; strings are parsed as a date first and
// as an integer second. The result is always positive.
func Normalize(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, &ParseError{Raw: value, Reason: "value is missing"}
	case float64:
		return fromNumber(value, v)
	case float32:
		return fromNumber(value, float64(v))
	case int:
		return fromNumber(value, float64(v))
	case int64:
		return fromInteger(value, v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return fromInteger(value, n)
		}
		f, err := v.Float64()
		if err != nil {
			return 0, &ParseError{Raw: value, Reason: "not a number"}
		}
		return fromNumber(value, f)
	case string:
		return fromString(v)
	default:
		return 0, &ParseError{Raw: value, Reason: fmt.Sprintf("unsupported type %T", value)}
	}
}

func fromNumber(raw any, v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Raw: raw, Reason: "not a finite number"}
	}
	if v <= 0 {
		return 0, &ParseError{Raw: raw, Reason: "not a positive instant"}
	}
	if v < SecondsThreshold {
		return int64(math.Round(v * 1000)), nil
	}
	if v >= math.MaxInt64 {
		return 0, &ParseError{Raw: raw, Reason: "out of range"}
	}
	return int64(v), nil
}

func fromInteger(raw any, v int64) (int64, error) {
	if v <= 0 {
		return 0, &ParseError{Raw: raw, Reason: "not a positive instant"}
	}
	if v < SecondsThreshold {
		return v * 1000, nil
	}
	return v, nil
}

func fromString(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &ParseError{Raw: s, Reason: "empty string"}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			ms := t.UnixMilli()
			if ms <= 0 {
				return 0, &ParseError{Raw: s, Reason: "not a positive instant"}
			}
			return ms, nil
		}
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return fromInteger(s, n)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ParseError{Raw: s, Reason: "neither a date nor a number"}
	}
	return fromNumber(s, f)
}

// maxWaitMs is the longest wait, in milliseconds, a time.Duration can hold.
const maxWaitMs = int64(math.MaxInt64 / int64(time.Millisecond))

// CalculateWaitTime returns how long to wait from now until next. An absent
// or past instant yields zero; waits beyond the Duration range saturate.
func CalculateWaitTime(next *int64, now time.Time) time.Duration {
	if next == nil {
		return 0
	}
	wait := *next - now.UnixMilli()
	if wait <= 0 {
		return 0
	}
	if wait > maxWaitMs {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(wait) * time.Millisecond
}
