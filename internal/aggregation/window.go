package aggregation

import (
	"strconv"
	"strings"
	"time"

	dErrors "polis/pkg/domain-errors"
)

const (
	// DefaultWindow is used when the caller does not name one.
	DefaultWindow = "30d"
	// WindowAll covers every recorded action.
	WindowAll = "all"
)

// ParseWindow accepts "all", a day count such as "30d", or any
// time.ParseDuration string. The zero duration means unbounded.
func ParseWindow(s string) (string, time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		s = DefaultWindow
	}
	if s == WindowAll {
		return s, 0, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return "", 0, dErrors.New(dErrors.CodeValidation, "window must be a positive day count, a duration, or \"all\"")
		}
		return s, time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return "", 0, dErrors.New(dErrors.CodeValidation, "window must be a positive day count, a duration, or \"all\"")
	}
	return s, d, nil
}

// windowStart is the inclusive lower bound of a window ending at now.
func windowStart(now time.Time, d time.Duration) time.Time {
	if d == 0 {
		return time.Time{}
	}
	return now.Add(-d)
}
