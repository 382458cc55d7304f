package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts a YouTube duration such as PT1H36M19S.
func ParseISODuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	m := isoDurationPattern.FindStringSubmatch(value)
	if m == nil || value == "PT" {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// FormatClock renders d as H:MM:SS, or M:SS under an hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// DisplayDuration formats a stored ISO duration, or returns it unchanged when
// it does not parse.
func DisplayDuration(value string) string {
	if value == "" {
		return ""
	}
	d, err := ParseISODuration(value)
	if err != nil {
		return value
	}
	return FormatClock(d)
}
