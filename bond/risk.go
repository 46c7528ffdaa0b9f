package bond

import (
	"time"
)

// RiskMetrics holds first- and second-order yield sensitivities plus PV01.
type RiskMetrics struct {
	ModifiedDuration float64
	Convexity        float64
	PV01             float64
}

// YieldShiftsPercent is the fixed parallel-shock grid of the sensitivity
// table, in percent.
var YieldShiftsPercent = []float64{-2.0, -1.5, -1.0, -0.5, 0.0, 0.5, 1.0, 1.5, 2.0}

// SensitivityPoint is a Taylor-approximated price under one parallel yield
// shock.
type SensitivityPoint struct {
	YieldShiftPercent float64
	ApproxPrice       float64
	DeltaPrice        float64
	DeltaPricePercent float64
}

// Analyze computes modified duration, convexity and PV01 at the given flat
// yield (decimal), under the same ICMA semiannual compounding used for
// pricing.
//
// Duration and convexity use the standard weighted discounted-cashflow-time
// sums over the dirty price:
//
//	D_mod = Σ t_k·CF_k·DF_k / (P_dirty·(1+y/f))
//	C     = Σ t_k·(t_k+1/f)·CF_k·DF_k / (P_dirty·(1+y/f)²)
//
// PV01 is the clean price at (y − 1bp) minus the clean price at y.
func Analyze(s Schedule, settlement time.Time, yield float64, face, couponRatePercent float64, freq int) RiskMetrics {
	cfs := s.Cashflows(face, couponRatePercent, freq)
	fy := NewFlatYield(s, settlement, yield, freq)

	base := 1.0 + yield/float64(freq)
	var pv, tWeighted, cWeighted float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		df := fy.DF(cf.Date)
		t := fy.Time(cf.Date)
		amt := cf.Amount()
		pv += amt * df
		tWeighted += t * amt * df
		cWeighted += t * (t + 1.0/float64(freq)) * amt * df
	}
	if pv == 0 {
		return RiskMetrics{}
	}

	modDur := tWeighted / (pv * base)
	convexity := cWeighted / (pv * base * base)

	// Accrued is yield-independent, so the dirty difference equals the
	// clean difference.
	bumped := NewFlatYield(s, settlement, yield-0.0001, freq)
	pv01 := DirtyPrice(cfs, settlement, bumped) - DirtyPrice(cfs, settlement, fy)

	return RiskMetrics{
		ModifiedDuration: modDur,
		Convexity:        convexity,
		PV01:             pv01,
	}
}

// SensitivityTable approximates the price under each parallel yield shock
// with a second-order Taylor expansion:
//
//	ΔP = −D·dy·P0 + 0.5·C·dy²·P0
//
// It is an approximation, not a re-pricing.
func SensitivityTable(cleanPrice, modDuration, convexity float64) []SensitivityPoint {
	out := make([]SensitivityPoint, 0, len(YieldShiftsPercent))
	for _, shift := range YieldShiftsPercent {
		dy := shift / 100.0
		deltaP := -modDuration*dy*cleanPrice + 0.5*convexity*dy*dy*cleanPrice
		out = append(out, SensitivityPoint{
			YieldShiftPercent: shift,
			ApproxPrice:       cleanPrice + deltaP,
			DeltaPrice:        deltaP,
			DeltaPricePercent: deltaP / cleanPrice * 100.0,
		})
	}
	return out
}
