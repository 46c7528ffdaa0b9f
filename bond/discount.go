package bond

import (
	"math"
	"time"

	"github.com/meenmo/giltlib/utils"
)

// Discounter provides discount factors for valuation.
//
// Two backings exist: a zero curve (full valuation) and a flat yield
// (projection / what-if at a fixed assumed rate). Pricing and risk code is
// written against this interface, not against either concrete backing.
type Discounter interface {
	DF(t time.Time) float64
}

// FlatYield discounts cashflows at a single periodic-compounded rate under
// ACT/ACT ICMA, measuring time in coupon periods from the settlement date:
//
//	n_1 = remaining fraction of the current period
//	n_k = n_1 + (k − 1)
//	DF(pay_k) = (1 + y/f)^(−n_k)
//
// DF at or before the settlement date is 1.
type FlatYield struct {
	settlement time.Time
	yield      float64 // decimal annual
	freq       int
	exponents  map[time.Time]float64 // pay date -> compounding periods
}

// NewFlatYield precomputes ICMA period exponents for every payment of the
// schedule occurring after settlement. yield is a decimal annual rate.
func NewFlatYield(s Schedule, settlement time.Time, yield float64, freq int) *FlatYield {
	f := &FlatYield{
		settlement: settlement,
		yield:      yield,
		freq:       freq,
		exponents:  make(map[time.Time]float64, len(s)),
	}

	first := -1
	for i, p := range s {
		if p.End.After(settlement) {
			first = i
			break
		}
	}
	if first < 0 {
		return f
	}

	w := 1.0 - utils.PeriodFraction(s[first].Start, s[first].End, settlement)
	for i := first; i < len(s); i++ {
		f.exponents[s[i].PayDate] = w + float64(i-first)
	}
	return f
}

func (f *FlatYield) DF(t time.Time) float64 {
	n, ok := f.exponents[t]
	if !ok {
		if !t.After(f.settlement) {
			return 1.0
		}
		// Off-schedule date: fall back to calendar time in periods.
		n = utils.YearFraction(f.settlement, t, "ACT/365F") * float64(f.freq)
	}
	return math.Pow(1.0+f.yield/float64(f.freq), -n)
}

// Time returns the year fraction from settlement to payment date t implied
// by the ICMA period exponents. Used by duration and convexity weights.
func (f *FlatYield) Time(t time.Time) float64 {
	if n, ok := f.exponents[t]; ok {
		return n / float64(f.freq)
	}
	if !t.After(f.settlement) {
		return 0
	}
	return utils.YearFraction(f.settlement, t, "ACT/365F")
}

// Yield returns the flat decimal annual rate.
func (f *FlatYield) Yield() float64 {
	return f.yield
}
