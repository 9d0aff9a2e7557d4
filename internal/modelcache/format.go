package modelcache

import (
	"fmt"

	units "github.com/docker/go-units"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders n in the largest unit (up to GB) where the value is at
// least 1: "100 B", "1.00 KB", "420.00 MB".
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return units.CustomSize("%.2f %s", float64(n), 1024.0, sizeUnits)
}
