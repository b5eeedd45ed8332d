package service

import (
	"strconv"
	"strings"
	"time"
)

// IsOpenAt evaluates structured opening hours against a point in time.
//
// A day entry is either the literal "closed" (case-insensitive) or one or
// more comma-separated "HH:MM-HH:MM" ranges. The business is open when the
// current minutes-since-midnight fall inside any range, both endpoints
// inclusive. Malformed ranges never match, so a broken entry reads as closed
// rather than erroring. Listings without hours are treated as open.
func IsOpenAt(hours map[string]string, at time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	day := strings.ToLower(at.Weekday().String())
	entry, ok := hours[day]
	if !ok {
		return false
	}

	entry = strings.TrimSpace(entry)
	if entry == "" || strings.EqualFold(entry, "closed") {
		return false
	}

	minutes := at.Hour()*60 + at.Minute()
	for _, rng := range strings.Split(entry, ",") {
		open, close, ok := parseRange(rng)
		if !ok {
			continue
		}
		if minutes >= open && minutes <= close {
			return true
		}
	}
	return false
}

// parseRange parses "HH:MM-HH:MM" into minutes since midnight.
func parseRange(rng string) (open, close int, ok bool) {
	parts := strings.Split(strings.TrimSpace(rng), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	open, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	close, ok = parseClock(parts[1])
	if !ok {
		return 0, 0, false
	}
	return open, close, true
}

func parseClock(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
