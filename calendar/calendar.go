package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// GBP is the United Kingdom settlement calendar (gilt market).
	GBP CalendarID = "GBP"
)

var gbpHolidays = map[string]struct{}{}

func init() {
	// Initialize GBP holidays from the UK bank holiday data
	gbpHolidays = make(map[string]struct{}, len(ukHolidayList))
	for _, h := range ukHolidayList {
		gbpHolidays[h] = struct{}{}
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case GBP:
		_, ok := gbpHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustFollowing applies the Following convention.
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}
