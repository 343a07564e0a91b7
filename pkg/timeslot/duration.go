package timeslot

import "time"

const day = time.Hour * 24

// ResolveDurationDays derives a session's span in whole days. An
// explicit value wins verbatim. Otherwise the span is the start-to-end
// difference rounded up to whole days, floored at one. Unparseable or
// missing inputs fall back to one day, the resolver never fails.
// Day granularity is a display signal, exactness lives in the instants.
func ResolveDurationDays(explicit *int, start, end string) int {
	if explicit != nil {
		return *explicit
	}

	st, err := parseAny(start)
	if err != nil {
		return 1
	}

	en, err := parseAny(end)
	if err != nil {
		return 1
	}

	d := en.Sub(st)
	if d <= 0 {
		return 1
	}

	days := int((d + day - time.Nanosecond) / day)
	if days < 1 {
		return 1
	}

	return days
}

func parseAny(s string) (time.Time, error) {
	if offsetTail.MatchString(s) {
		var err error

		var t time.Time

		for _, l := range markedLayouts {
			if t, err = time.Parse(l, s); err == nil {
				return t, nil
			}
		}

		return time.Time{}, err
	}

	return ParseLocal(s)
}
