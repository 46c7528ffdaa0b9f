package bond

import (
	"fmt"
	"math"
	"time"
)

const (
	yieldTolerance = 1e-10
	yieldMaxIter   = 100
	yieldFloor     = -0.50
	yieldCeiling   = 1.00
	bisectMaxIter  = 200
)

// SolveImpliedYield finds the periodic-compounded annual rate (decimal)
// that reproduces targetClean when all future cashflows are discounted flat
// at that rate under ACT/ACT ICMA.
//
// The price-yield relation is strictly monotone, so the root is unique.
// The solver uses Newton-Raphson with analytic first derivative, clamped to
// [yieldFloor, yieldCeiling], and falls back to bisection when Newton
// stalls. Failure to converge or to bracket a sign change yields
// ErrYieldNotFound.
func SolveImpliedYield(s Schedule, settlement time.Time, targetClean, face, couponRatePercent float64, freq int) (float64, error) {
	cfs := s.Cashflows(face, couponRatePercent, freq)
	accrued := AccruedInterest(s, settlement, face, couponRatePercent, freq)
	targetDirty := targetClean + accrued

	// Initial guess: the coupon rate, a reasonable neighborhood for par-ish prices.
	y := clamp(couponRatePercent/100.0, yieldFloor, yieldCeiling)

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := dirtyPriceAndDeriv(y, s, cfs, settlement, freq)
		f := price - targetDirty

		if math.Abs(f) < yieldTolerance {
			return y, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			break
		}
		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return bisectYield(s, cfs, settlement, targetDirty, freq)
}

// dirtyPriceAndDeriv returns (price, dPrice/dy) at flat yield y.
//
//	price = Σ CF_k · (1+y/f)^(−n_k)
//	dP/dy = Σ −(n_k/f) · CF_k · (1+y/f)^(−n_k−1)
func dirtyPriceAndDeriv(y float64, s Schedule, cfs []Cashflow, settlement time.Time, freq int) (float64, float64) {
	fy := NewFlatYield(s, settlement, y, freq)
	base := 1.0 + y/float64(freq)

	var price, deriv float64
	for _, cf := range cfs {
		n, ok := fy.exponents[cf.Date]
		if !ok {
			continue
		}
		amt := cf.Amount()
		df := math.Pow(base, -n)
		price += amt * df
		deriv += -(n / float64(freq)) * amt * df / base
	}
	return price, deriv
}

// bisectYield brackets the root over the full allowed range and bisects.
func bisectYield(s Schedule, cfs []Cashflow, settlement time.Time, targetDirty float64, freq int) (float64, error) {
	lo, hi := yieldFloor, yieldCeiling
	fLo, _ := dirtyPriceAndDeriv(lo, s, cfs, settlement, freq)
	fHi, _ := dirtyPriceAndDeriv(hi, s, cfs, settlement, freq)
	fLo -= targetDirty
	fHi -= targetDirty

	if fLo*fHi > 0 {
		return 0, fmt.Errorf("SolveImpliedYield: no sign change in [%.2f, %.2f]: %w", lo, hi, ErrYieldNotFound)
	}

	for iter := 0; iter < bisectMaxIter; iter++ {
		mid := 0.5 * (lo + hi)
		fMid, _ := dirtyPriceAndDeriv(mid, s, cfs, settlement, freq)
		fMid -= targetDirty

		if math.Abs(fMid) < yieldTolerance || hi-lo < 1e-14 {
			return mid, nil
		}
		// Price decreases in yield, so fLo > 0 > fHi.
		if fMid > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, fmt.Errorf("SolveImpliedYield: did not converge after %d bisections: %w", bisectMaxIter, ErrYieldNotFound)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
