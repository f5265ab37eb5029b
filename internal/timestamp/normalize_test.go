package timestamp

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
	}{
		{"seconds float", float64(1_700_000_000), 1_700_000_000_000},
		{"seconds just below threshold", float64(9_999_999_999), 9_999_999_999_000},
		{"milliseconds at threshold", float64(10_000_000_000), 10_000_000_000},
		{"milliseconds float", float64(1_700_000_000_123), 1_700_000_000_123},
		{"fractional seconds", 1_700_000_000.5, 1_700_000_000_500},
		{"seconds int", 1_700_000_000, 1_700_000_000_000},
		{"milliseconds int64", int64(1_700_000_000_123), 1_700_000_000_123},
		{"json number seconds", json.Number("1700000000"), 1_700_000_000_000},
		{"json number milliseconds", json.Number("1700000000123"), 1_700_000_000_123},
		{"rfc3339 string", "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()},
		{"rfc3339 with millis", "2024-01-02T03:04:05.250Z", time.Date(2024, 1, 2, 3, 4, 5, 250_000_000, time.UTC).UnixMilli()},
		{"rfc3339 with offset", "2024-01-02T11:04:05+08:00", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()},
		{"space separated date time", "2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()},
		{"integer string milliseconds", "1700000000123", 1_700_000_000_123},
		{"integer string seconds", " 1700000000 ", 1_700_000_000_000},
		{"fractional string seconds", "1700000000.5", 1_700_000_000_500},
		{"fractional string milliseconds", "1700000000123.0", 1_700_000_000_123},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeSecondsProperty(t *testing.T) {
	for _, sec := range []int64{1, 60, 86_400, 1_000_000_000, 1_700_000_000, 9_999_999_999} {
		got, err := Normalize(float64(sec))
		require.NoError(t, err)
		assert.Equal(t, sec*1000, got)
	}
	for _, ms := range []int64{10_000_000_000, 1_700_000_000_000, 4_102_444_800_000} {
		got, err := Normalize(float64(ms))
		require.NoError(t, err)
		assert.Equal(t, ms, got)
	}
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		skipRaw bool
	}{
		{"missing", nil, false},
		{"not a date", "not-a-date", false},
		{"empty string", "", false},
		{"zero", float64(0), false},
		{"negative", float64(-5), false},
		{"negative string", "-1700000000", false},
		{"zero string", "0", false},
		{"infinite string", "Inf", false},
		{"nan string", "NaN", false},
		{"nan", math.NaN(), true},
		{"infinity", math.Inf(1), false},
		{"bool", true, false},
		{"object", map[string]any{"at": 1}, false},
		{"array", []any{float64(1)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			require.Error(t, err)
			assert.Zero(t, got)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			if !tc.skipRaw {
				assert.Equal(t, tc.input, parseErr.Raw)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Normalize("not-a-date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"not-a-date"`)
}

func TestCalculateWaitTime(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("absent returns zero", func(t *testing.T) {
		assert.Zero(t, CalculateWaitTime(nil, now))
	})

	t.Run("past returns zero", func(t *testing.T) {
		past := now.Add(-time.Minute).UnixMilli()
		assert.Zero(t, CalculateWaitTime(&past, now))
	})

	t.Run("now returns zero", func(t *testing.T) {
		at := now.UnixMilli()
		assert.Zero(t, CalculateWaitTime(&at, now))
	})

	t.Run("future returns difference", func(t *testing.T) {
		future := now.Add(90 * time.Minute).UnixMilli()
		assert.Equal(t, 90*time.Minute, CalculateWaitTime(&future, now))
	})

	t.Run("far future saturates", func(t *testing.T) {
		for _, raw := range []any{"9999-12-31", float64(1e16)} {
			next, err := Normalize(raw)
			require.NoError(t, err)

			wait := CalculateWaitTime(&next, now)
			assert.Equal(t, time.Duration(math.MaxInt64), wait, "input %v", raw)
		}
	})

	t.Run("largest representable wait is exact", func(t *testing.T) {
		next := now.UnixMilli() + maxWaitMs
		assert.Equal(t, time.Duration(maxWaitMs)*time.Millisecond, CalculateWaitTime(&next, now))
	})
}
