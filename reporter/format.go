package reporter

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as "1h 2m 3s", dropping leading zero
// units.
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	minutes := seconds / 60
	hours := minutes / 60

	seconds %= 60
	minutes %= 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
