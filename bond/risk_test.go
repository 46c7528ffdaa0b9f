package bond_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/giltlib/bond"
	"github.com/meenmo/giltlib/calendar"
)

func TestAnalyze_DurationShrinksTowardMaturity(t *testing.T) {
	t.Parallel()

	m := testMaster()
	sched := testSchedule(t, m)

	evals := []time.Time{
		date(2024, time.June, 1),
		date(2026, time.June, 1),
		date(2028, time.June, 1),
		date(2029, time.June, 1),
	}

	var prev float64
	for i, eval := range evals {
		settlement := bond.SettlementDate(eval, calendar.GBP)
		risk := bond.Analyze(sched, settlement, 0.04, m.FaceAmount, m.CouponRatePercent, m.Frequency)
		if risk.ModifiedDuration <= 0 {
			t.Fatalf("ModifiedDuration = %v at %s", risk.ModifiedDuration, eval.Format("2006-01-02"))
		}
		if i > 0 && risk.ModifiedDuration >= prev {
			t.Fatalf("duration not decreasing toward maturity: %v then %v", prev, risk.ModifiedDuration)
		}
		prev = risk.ModifiedDuration
	}
}

func TestAnalyze_DurationMagnitude(t *testing.T) {
	t.Parallel()

	m := testMaster()
	sched := testSchedule(t, m)
	eval := date(2024, time.June, 1)
	settlement := bond.SettlementDate(eval, calendar.GBP)

	risk := bond.Analyze(sched, settlement, 0.04, m.FaceAmount, m.CouponRatePercent, m.Frequency)

	// A 5.6y-remaining coupon bond has modified duration somewhat below
	// time-to-maturity/(1+y/2) and well above half of it.
	ttm := 5.58
	upper := ttm / (1 + 0.04/2)
	if !(risk.ModifiedDuration > upper/2 && risk.ModifiedDuration < upper) {
		t.Fatalf("ModifiedDuration = %v, want in (%v, %v)", risk.ModifiedDuration, upper/2, upper)
	}
	if risk.Convexity <= 0 {
		t.Fatalf("Convexity = %v", risk.Convexity)
	}
}

func TestAnalyze_PV01(t *testing.T) {
	t.Parallel()

	m := testMaster()
	sched := testSchedule(t, m)
	eval := date(2024, time.June, 1)
	settlement := bond.SettlementDate(eval, calendar.GBP)

	priced := cleanAtYield(t, m, sched, eval, 0.04)
	risk := bond.Analyze(sched, settlement, 0.04, m.FaceAmount, m.CouponRatePercent, m.Frequency)

	// A 1bp drop raises the price; PV01 is positive and near D*P0*1e-4.
	if risk.PV01 <= 0 {
		t.Fatalf("PV01 = %v", risk.PV01)
	}
	approx := risk.ModifiedDuration * priced.DirtyPrice * 1e-4
	if math.Abs(risk.PV01-approx)/approx > 0.01 {
		t.Fatalf("PV01 = %v, duration approximation %v", risk.PV01, approx)
	}
}

func TestSensitivityTable(t *testing.T) {
	t.Parallel()

	const (
		p0 = 101.25
		d  = 4.8
		c  = 28.0
	)
	table := bond.SensitivityTable(p0, d, c)
	if len(table) != len(bond.YieldShiftsPercent) {
		t.Fatalf("table has %d entries, want %d", len(table), len(bond.YieldShiftsPercent))
	}

	byShift := make(map[float64]bond.SensitivityPoint, len(table))
	for _, pt := range table {
		byShift[pt.YieldShiftPercent] = pt
	}

	// Zero shift leaves the price unchanged.
	if pt := byShift[0.0]; pt.DeltaPrice != 0 || pt.ApproxPrice != p0 {
		t.Fatalf("zero shift: %+v", pt)
	}

	for _, shift := range []float64{0.5, 1.0, 1.5, 2.0} {
		up := byShift[shift]
		down := byShift[-shift]
		dy := shift / 100.0

		// The convexity term lifts both sides of the duration line equally.
		convexTerm := 0.5 * c * dy * dy * p0
		sum := up.DeltaPrice + down.DeltaPrice
		if math.Abs(sum-2*convexTerm) > 1e-9 {
			t.Fatalf("shift ±%v: ΔP sum %v, want %v", shift, sum, 2*convexTerm)
		}
		if down.DeltaPrice <= 0 || up.DeltaPrice >= down.DeltaPrice {
			t.Fatalf("shift ±%v: up %v down %v", shift, up.DeltaPrice, down.DeltaPrice)
		}

		if math.Abs(up.DeltaPricePercent-up.DeltaPrice/p0*100) > 1e-9 {
			t.Fatalf("ΔP%% inconsistent: %+v", up)
		}
	}
}
