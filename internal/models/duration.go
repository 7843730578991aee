package models

import (
	"fmt"
	"strconv"
	"strings"
)

const DateLayout = "2006-01-02"

// ParseDurationMinutes reads the "PT#H#M" subset of ISO-8601 durations the
// search API emits, also accepting a leading day component ("P1DT2H").
func ParseDurationMinutes(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	s = s[1:]

	total := 0
	inTime := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'T':
			if inTime || num != "" {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			inTime = true
		default:
			if num == "" {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, err
			}
			num = ""
			switch {
			case r == 'D' && !inTime:
				total += n * 24 * 60
			case r == 'H' && inTime:
				total += n * 60
			case r == 'M' && inTime:
				total += n
			case r == 'S' && inTime:
			default:
				return 0, fmt.Errorf("invalid duration %q", s)
			}
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}

// FormatDuration renders minutes as "2h 30m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
