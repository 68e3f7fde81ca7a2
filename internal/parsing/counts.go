package parsing

import (
	"fmt"
	"strconv"
)

// FormatCount abbreviates large counts for display ("1.2K", "3.4M").
func FormatCount(count int64) string {
	switch {
	case count <= 0:
		return "N/A"
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return strconv.FormatInt(count, 10)
	}
}
