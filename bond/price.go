package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/giltlib/calendar"
	"github.com/meenmo/giltlib/utils"
)

// SettlementDate advances the evaluation date by one business day.
func SettlementDate(evalDate time.Time, cal calendar.CalendarID) time.Time {
	return calendar.AddBusinessDays(cal, evalDate, 1)
}

// DirtyPrice sums the discounted cashflows paying strictly after
// settlement, normalized to the settlement date.
func DirtyPrice(cfs []Cashflow, settlement time.Time, disc Discounter) float64 {
	dfSettle := disc.DF(settlement)
	var pv float64
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			pv += cf.Amount() * disc.DF(cf.Date)
		}
	}
	return pv / dfSettle
}

// AccruedInterest is the coupon accrued from the last coupon date before
// settlement, pro rata in calendar days over the current period
// (ACT/ACT ICMA).
func AccruedInterest(s Schedule, settlement time.Time, face, couponRatePercent float64, freq int) float64 {
	i := s.periodAt(settlement)
	if i < 0 {
		return 0
	}
	p := s[i]
	return periodCoupon(p, face, couponRatePercent, freq) * utils.PeriodFraction(p.Start, p.End, settlement)
}

// Price values a bond against the given discounter.
//
// The returned PricedBond carries clean/dirty price and accrued interest;
// the implied yield is left to SolveImpliedYield since projection paths
// price at an already-known rate. Fails with ErrMaturedBond when the
// evaluation date is on or after maturity.
func Price(m Master, s Schedule, evalDate, settlement time.Time, disc Discounter) (PricedBond, error) {
	if !evalDate.Before(m.MaturityDate) {
		return PricedBond{}, fmt.Errorf("Price: %s evaluated %s on/after maturity %s: %w",
			m.ISIN, evalDate.Format(utils.ISODate), m.MaturityDate.Format(utils.ISODate), ErrMaturedBond)
	}

	cfs := s.Cashflows(m.FaceAmount, m.CouponRatePercent, m.Frequency)
	dirty := DirtyPrice(cfs, settlement, disc)
	accrued := AccruedInterest(s, settlement, m.FaceAmount, m.CouponRatePercent, m.Frequency)

	return PricedBond{
		CleanPrice:      dirty - accrued,
		DirtyPrice:      dirty,
		AccruedInterest: accrued,
	}, nil
}
