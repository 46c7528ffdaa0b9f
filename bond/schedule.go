package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/giltlib/calendar"
	"github.com/meenmo/giltlib/utils"
)

// Period is one coupon accrual period.
//
// Start and End are unadjusted calculation boundaries; PayDate is End
// rolled forward to the next business day (Following convention).
type Period struct {
	Start        time.Time
	End          time.Time
	PayDate      time.Time
	IsRedemption bool
}

// Schedule is a bond's ordered coupon/redemption period sequence.
// Periods are contiguous and non-overlapping, covering issue to maturity;
// the last period's End equals maturity exactly.
type Schedule []Period

// GenerateSchedule rolls period boundaries backward from maturity at the
// stated coupon frequency, creating a front stub at the issue date when the
// first full period would start before it.
func GenerateSchedule(issue, maturity time.Time, freq int, cal calendar.CalendarID) (Schedule, error) {
	if !issue.Before(maturity) {
		return nil, fmt.Errorf("GenerateSchedule: issue %s not before maturity %s: %w",
			issue.Format(utils.ISODate), maturity.Format(utils.ISODate), ErrInvalidSchedule)
	}
	if freq <= 0 || 12%freq != 0 {
		return nil, fmt.Errorf("GenerateSchedule: unsupported frequency %d: %w", freq, ErrInvalidSchedule)
	}
	months := 12 / freq

	// Roll backward from the maturity anchor to avoid month-arithmetic drift.
	bounds := []time.Time{maturity}
	for i := 1; ; i++ {
		d := utils.AddMonth(maturity, -months*i)
		if !d.After(issue) {
			break
		}
		bounds = append(bounds, d)
	}
	bounds = append(bounds, issue)

	// bounds is maturity-first; build periods oldest-first.
	sched := make(Schedule, 0, len(bounds)-1)
	for i := len(bounds) - 1; i > 0; i-- {
		start, end := bounds[i], bounds[i-1]
		p := Period{
			Start:        start,
			End:          end,
			PayDate:      calendar.AdjustFollowing(cal, end),
			IsRedemption: i == 1,
		}
		// The redemption pays on the maturity date itself, unadjusted.
		if p.IsRedemption {
			p.PayDate = end
		}
		sched = append(sched, p)
	}
	return sched, nil
}

// Cashflows expands the schedule into dated coupon payments plus the final
// redemption. Stub periods accrue pro rata against their notional full
// period (ACT/ACT ICMA).
func (s Schedule) Cashflows(face, couponRatePercent float64, freq int) []Cashflow {
	cfs := make([]Cashflow, 0, len(s))
	for _, p := range s {
		cf := Cashflow{
			Date:   p.PayDate,
			Coupon: periodCoupon(p, face, couponRatePercent, freq),
		}
		if p.IsRedemption {
			cf.Principal = face
		}
		cfs = append(cfs, cf)
	}
	return cfs
}

// periodCoupon is the coupon amount accrued over one period.
func periodCoupon(p Period, face, couponRatePercent float64, freq int) float64 {
	c := couponRatePercent / 100.0
	full := face * c / float64(freq)

	// EDATE clamps month-end days, so the roll test is not symmetric:
	// Mar 31 + 6m = Sep 30 but Sep 30 - 6m = Mar 30. A period is regular
	// when either direction lands on the other boundary.
	months := 12 / freq
	if utils.AddMonth(p.Start, months).Equal(p.End) || utils.AddMonth(p.End, -months).Equal(p.Start) {
		return full
	}
	// Stub: pro-rate against the notional full period ending at p.End.
	refStart := utils.AddMonth(p.End, -months)
	return full * utils.Days(p.Start, p.End) / utils.Days(refStart, p.End)
}

// periodAt returns the index of the period containing d (Start <= d < End),
// or -1 when d falls outside the schedule.
func (s Schedule) periodAt(d time.Time) int {
	for i, p := range s {
		if !d.Before(p.Start) && d.Before(p.End) {
			return i
		}
	}
	return -1
}
