package services

import (
	"regexp"
	"strconv"
	"strings"
)

const defaultEstimatedDays = 3

var firstNumber = regexp.MustCompile(`\d+`)

// EstimateDays converts a free-text duration such as "2 weeks" or "3 hours"
// into whole study days. Weeks count seven days, two hours count one day
// (at least one), and text without a known unit counts three days.
func EstimateDays(duration string) int {
	d := strings.ToLower(duration)
	switch {
	case strings.Contains(d, "week"):
		return leadingInt(d) * 7
	case strings.Contains(d, "day"):
		return leadingInt(d)
	case strings.Contains(d, "hour"):
		days := leadingInt(d) / 2
		if days < 1 {
			return 1
		}
		return days
	default:
		return defaultEstimatedDays
	}
}

// leadingInt returns the first run of digits in s, or 1 when there is none.
func leadingInt(s string) int {
	match := firstNumber.FindString(s)
	if match == "" {
		return 1
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 1
	}
	return n
}
