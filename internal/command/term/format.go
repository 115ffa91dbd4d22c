package term

import (
	"fmt"
	"strconv"
	"time"
)

var binaryUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatSize returns bytes as a human readable size with binary units.
func FormatSize(bytes uint64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes) / 1024
	unit := binaryUnits[0]

	for _, u := range binaryUnits[1:] {
		if size < 1024 {
			break
		}

		size /= 1024
		unit = u
	}

	return fmt.Sprintf("%.3f %s", size, unit)
}

// StrDurationSec returns the time between start and end in seconds with
// millisecond precision.
func StrDurationSec(start, end time.Time) string {
	return strconv.FormatFloat(end.Sub(start).Seconds(), 'f', 3, 64)
}
