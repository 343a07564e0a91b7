package timeslot

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// LocalMinute is the wall-clock form used by authoring surfaces.
	LocalMinute = "2006-01-02T15:04"

	// LeadTime is the minimum interval between now and a session start.
	LeadTime = time.Hour

	// SlotSize is the granularity start boundaries are rounded up to.
	SlotSize = time.Minute * 30
)

var offsetTail = regexp.MustCompile(`(Z|[+-]\d{2}:\d{2})$`)

var markedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseServerDateTime renders a server date-time string as a local
// wall-clock value in LocalMinute form. Strings with an explicit UTC or
// offset marker are treated as absolute instants and shifted to the
// viewer's zone. Strings without a marker are already local wall-clock,
// their components pass through unchanged. The backend emits both
// flavors depending on write path, so a naive string must never be
// converted a second time.
func ParseServerDateTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if s == "" {
		return "", fmt.Errorf("empty date-time")
	}

	if offsetTail.MatchString(s) {
		for _, l := range markedLayouts {
			if t, err := time.Parse(l, s); err == nil {
				return t.Local().Format(LocalMinute), nil
			}
		}

		return "", fmt.Errorf("invalid date-time %q", raw)
	}

	t, err := ParseLocal(s)
	if err != nil {
		return "", err
	}

	return t.Format(LocalMinute), nil
}

// ParseLocal parses a wall-clock string without a timezone marker in
// the local zone.
func ParseLocal(s string) (time.Time, error) {
	for _, l := range naiveLayouts {
		if t, err := time.ParseInLocation(l, strings.TrimSpace(s), time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date-time %q", s)
}

// EarliestAllowedStart returns the earliest start a new session may
// have: now plus LeadTime, rounded up to the next SlotSize boundary
// with seconds cleared. The result is never before now plus LeadTime.
func EarliestAllowedStart(now time.Time) time.Time {
	t := now.Add(LeadTime)

	if t.Second() != 0 || t.Nanosecond() != 0 {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location()).
			Add(time.Minute)
	}

	if rem := t.Minute() % int(SlotSize/time.Minute); rem != 0 {
		t = t.Add(time.Duration(int(SlotSize/time.Minute)-rem) * time.Minute)
	}

	return t
}

// FormatWithOffset turns a minute-precision local value into an
// unambiguous instant string by expanding ":00" seconds and appending
// the environment's current UTC offset. Pure given its inputs; now only
// supplies the offset.
func FormatWithOffset(local string, now time.Time) (string, error) {
	if _, err := time.ParseInLocation(LocalMinute, local, time.Local); err != nil {
		return "", fmt.Errorf("invalid local value %q", local)
	}

	_, off := now.Zone()

	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}

	return fmt.Sprintf("%s:00%s%02d:%02d", local, sign, off/3600, off%3600/60), nil
}
