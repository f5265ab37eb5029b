package display

import (
	"fmt"
	"time"
)

const (
	TimeLayout     = "2006-01-02 15:04:05"
	NoDataText     = "waiting for data"
	zeroSecondText = "0s"
)

// FormatDuration renders d as "Xh Ym Zs", dropping leading zero units.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return zeroSecondText
	}

	total := int64(d / time.Second)
	seconds := total % 60
	minutes := (total / 60) % 60
	hours := total / 3600

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatTime renders an epoch-millisecond instant in local time.
func FormatTime(epochMs *int64) string {
	if epochMs == nil || *epochMs <= 0 {
		return NoDataText
	}
	return time.UnixMilli(*epochMs).Format(TimeLayout)
}

func WaitingText(remaining time.Duration) string {
	return fmt.Sprintf("waiting, %s remaining", FormatDuration(remaining))
}

func RetryText(status string, delay time.Duration) string {
	return fmt.Sprintf("%s, retrying in %s", status, FormatDuration(delay))
}
