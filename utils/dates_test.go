package utils_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/giltlib/utils"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := utils.ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if !got.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseDate = %s", got)
	}

	for _, bad := range []string{"", "01/06/2024", "2024-13-40", "not a date"} {
		if _, err := utils.ParseDate(bad); !errors.Is(err, utils.ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): want ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestAdjacentDates(t *testing.T) {
	t.Parallel()

	d := func(s string) time.Time {
		tt, err := utils.ParseDate(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		return tt
	}
	dates := []time.Time{d("2024-01-01"), d("2024-02-01"), d("2024-03-01")}

	lo, hi := utils.AdjacentDates(d("2024-01-15"), dates)
	if !lo.Equal(dates[0]) || !hi.Equal(dates[1]) {
		t.Fatalf("AdjacentDates mid: got %s, %s", lo, hi)
	}

	// Outside the range returns the nearest boundary pair.
	lo, hi = utils.AdjacentDates(d("2023-12-01"), dates)
	if !lo.Equal(dates[0]) || !hi.Equal(dates[1]) {
		t.Fatalf("AdjacentDates before: got %s, %s", lo, hi)
	}
	lo, hi = utils.AdjacentDates(d("2024-06-01"), dates)
	if !lo.Equal(dates[1]) || !hi.Equal(dates[2]) {
		t.Fatalf("AdjacentDates after: got %s, %s", lo, hi)
	}
}

func TestAddMonth(t *testing.T) {
	t.Parallel()

	// EDATE semantics: month-end clamps instead of normalizing.
	got := utils.AddMonth(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), -1)
	if !got.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("AddMonth(Mar 31, -1) = %s", got.Format("2006-01-02"))
	}

	got = utils.AddMonth(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 6)
	if !got.Equal(time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("AddMonth(Jan 15, +6) = %s", got.Format("2006-01-02"))
	}
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	if got := utils.RoundTo(1.2345678, 4); math.Abs(got-1.2346) > 1e-12 {
		t.Fatalf("RoundTo = %v", got)
	}
}
