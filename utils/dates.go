package utils

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInvalidDate is returned when a date field is missing or unparsable.
var ErrInvalidDate = errors.New("invalid date")

// ISODate is the wire format for all dates in this library.
const ISODate = "2006-01-02"

// ParseDate converts YYYY-MM-DD to time.Time.
//
// Failures wrap ErrInvalidDate so callers can keep them per-record rather
// than aborting a batch.
func ParseDate(strDate string) (time.Time, error) {
	if strDate == "" {
		return time.Time{}, fmt.Errorf("ParseDate: empty date: %w", ErrInvalidDate)
	}
	t, err := time.Parse(ISODate, strDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %q: %w", strDate, ErrInvalidDate)
	}
	return t, nil
}

// AdjacentDates returns the two dates from a sorted date slice that bracket target.
//
// It assumes dates is sorted in ascending order and has at least two elements.
// If target is outside the provided range, it returns the nearest boundary pair.
func AdjacentDates(target time.Time, dates []time.Time) (time.Time, time.Time) {
	if len(dates) < 2 {
		panic("AdjacentDates: need at least 2 dates")
	}

	// First index with dates[i] >= target.
	i := sort.Search(len(dates), func(i int) bool {
		return !dates[i].Before(target)
	})

	if i <= 0 {
		return dates[0], dates[1]
	}
	if i >= len(dates) {
		return dates[len(dates)-2], dates[len(dates)-1]
	}
	return dates[i-1], dates[i]
}

// Days returns the day count fraction in days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// MonthInt returns the numeric month.
func MonthInt(t time.Time) int {
	return int(t.Month())
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := MonthInt(d)
	for MonthInt(d) == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
