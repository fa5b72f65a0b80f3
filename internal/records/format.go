package records

import (
	"fmt"
	"math"
)

// FormatTime renders a record time in milliseconds as S.mmm, M:SS.mmm or
// H:MM:SS.mmm. Fractional milliseconds are truncated.
func FormatTime(ms float64) string {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return "-"
	}
	total := int64(ms)
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	seconds := (total % 60_000) / 1000
	millis := total % 1000

	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	case minutes > 0:
		return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
	default:
		return fmt.Sprintf("%d.%03d", seconds, millis)
	}
}
