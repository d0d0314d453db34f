// Package target2 computes TARGET2 settlement days, the business days of
// the euro payment system.
//
// All functions work on calendar dates: the time of day is dropped and the
// result is midnight UTC.
package target2

import "time"

// EasterSunday returns Easter Sunday of year using Gauss's algorithm with
// integer arithmetic only, so it works outside the Unix time range.
func EasterSunday(year int) time.Time {
	g := year % 19
	c := year / 100
	h := (c - c/4 - (8*c+13)/25 + 19*g + 15) % 30
	i := h - (h/28)*(1-(h/28)*(29/(h+1))*((21-g)/11))
	j := (year + year/4 + i + 2 - c + c/4) % 7
	l := i - j
	month := 3 + (l+40)/44
	day := l + 28 - 31*(month/4)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSettlementDay reports whether TARGET2 settles on t. Closed are weekends,
// New Year's Day, Good Friday, Easter Monday, 1 May and 25 and 26 December.
func IsSettlementDay(t time.Time) bool {
	d := Date(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	switch m, day := d.Month(), d.Day(); {
	case m == time.January && day == 1,
		m == time.May && day == 1,
		m == time.December && (day == 25 || day == 26):
		return false
	}

	easter := EasterSunday(d.Year())
	if d.Equal(easter.AddDate(0, 0, -2)) || d.Equal(easter.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// NextSettlementDay returns the first settlement day on or after from, moved
// forward by offset further settlement days. A negative offset counts as 0.
func NextSettlementDay(from time.Time, offset int) time.Time {
	d := Date(from)
	isSettlement := IsSettlementDay(d)
	for !isSettlement || offset > 0 {
		d = d.AddDate(0, 0, 1)
		if isSettlement {
			offset--
		}
		isSettlement = IsSettlementDay(d)
	}
	return d
}

// EarliestSettlementDate returns target moved to its next settlement day,
// unless that is earlier than minOffset settlement days after today, in
// which case the earliest allowed date is returned.
func EarliestSettlementDate(target time.Time, minOffset int, today time.Time) time.Time {
	earliest := NextSettlementDay(today, minOffset)
	t := NextSettlementDay(target, 0)
	if t.After(earliest) {
		return t
	}
	return earliest
}
