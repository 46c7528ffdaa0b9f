package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/giltlib/utils"
)

var (
	// ErrInsufficientCurvePoints is returned when fewer than two usable
	// dated nodes remain after filtering. Fatal to the pricing run.
	ErrInsufficientCurvePoints = errors.New("not enough usable curve points")
)

// curveDayCount is the time basis for the curve axis, independent of any
// bond's accrual basis.
const curveDayCount = "ACT/365F"

// ZeroCurve is a discount curve built for a single evaluation date.
//
// Zero rates are continuously compounded decimals on an ACT/365F time axis,
// interpolated linearly in time between nodes with flat extrapolation
// beyond the last node. A ZeroCurve is valid only for the evaluation date
// it was built with; rebuild when the evaluation date changes.
type ZeroCurve struct {
	evalDate time.Time
	dates    []time.Time
	zeros    []float64 // decimal
}

// Build constructs a ZeroCurve from resolved spot points.
//
// The first point's rate anchors a zero-length node at the evaluation date.
// Every point is then placed at evalDate + round(tenorYears*365) calendar
// days; points whose resulting date is not strictly after the evaluation
// date, or whose tenor is non-positive, are skipped. Fewer than two usable
// dated nodes yields ErrInsufficientCurvePoints.
func Build(evalDate time.Time, points []SpotPoint) (*ZeroCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("Build: no spot points: %w", ErrInsufficientCurvePoints)
	}

	dates := []time.Time{evalDate}
	zeros := []float64{points[0].RatePercent / 100.0}

	for _, p := range points {
		if p.TenorYears <= 0 {
			continue
		}
		days := int(math.Round(p.TenorYears * 365))
		d := evalDate.AddDate(0, 0, days)
		if !d.After(evalDate) {
			continue
		}
		dates = append(dates, d)
		zeros = append(zeros, p.RatePercent/100.0)
	}

	if len(dates) < 2 {
		return nil, fmt.Errorf("Build: %d usable dates: %w", len(dates), ErrInsufficientCurvePoints)
	}

	return &ZeroCurve{evalDate: evalDate, dates: dates, zeros: zeros}, nil
}

// EvalDate returns the evaluation date the curve was built for.
func (c *ZeroCurve) EvalDate() time.Time {
	return c.evalDate
}

// Nodes returns the number of dated nodes on the curve.
func (c *ZeroCurve) Nodes() int {
	return len(c.dates)
}

// ZeroRateAt returns the interpolated zero rate (decimal) at t.
func (c *ZeroCurve) ZeroRateAt(t time.Time) float64 {
	if !t.After(c.dates[0]) {
		return c.zeros[0]
	}
	last := len(c.dates) - 1
	if !t.Before(c.dates[last]) {
		return c.zeros[last]
	}

	d1, d2 := utils.AdjacentDates(t, c.dates)
	z1 := c.zeroFor(d1)
	z2 := c.zeroFor(d2)

	t1 := utils.YearFraction(c.evalDate, d1, curveDayCount)
	t2 := utils.YearFraction(c.evalDate, d2, curveDayCount)
	tt := utils.YearFraction(c.evalDate, t, curveDayCount)
	if t2 == t1 {
		return z1
	}
	return z1 + (z2-z1)*(tt-t1)/(t2-t1)
}

// DF returns the discount factor from t back to the evaluation date.
func (c *ZeroCurve) DF(t time.Time) float64 {
	tau := utils.YearFraction(c.evalDate, t, curveDayCount)
	if tau <= 0 {
		return 1.0
	}
	return math.Exp(-c.ZeroRateAt(t) * tau)
}

func (c *ZeroCurve) zeroFor(d time.Time) float64 {
	for i, cd := range c.dates {
		if cd.Equal(d) {
			return c.zeros[i]
		}
	}
	return c.zeros[len(c.zeros)-1]
}
