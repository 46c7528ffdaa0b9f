// Package projection re-values bonds at future dates under a fixed yield
// assumption. A single engine serves both the single-instrument and the
// dirty-price-weighted portfolio paths; they differ only in how per-date
// values are aggregated.
package projection

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/giltlib/bond"
	"github.com/meenmo/giltlib/calendar"
)

// ErrInvalidFrequency is returned for an unrecognized projection frequency
// tag. Recorded per-record, never fatal to a batch.
var ErrInvalidFrequency = errors.New("invalid projection frequency")

// Frequency is a projection stepping tag.
type Frequency string

const (
	Monthly      Frequency = "monthly"
	Quarterly    Frequency = "quarterly"
	Annual       Frequency = "annual"
	Quinquennial Frequency = "quinquennial"
)

// ParseFrequency validates a frequency tag.
func ParseFrequency(tag string) (Frequency, error) {
	switch Frequency(tag) {
	case Monthly, Quarterly, Annual, Quinquennial:
		return Frequency(tag), nil
	default:
		return "", fmt.Errorf("ParseFrequency: %q: %w", tag, ErrInvalidFrequency)
	}
}

// StepDays is the fixed day-count step for the tag.
func (f Frequency) StepDays() (int, error) {
	switch f {
	case Monthly:
		return 30, nil
	case Quarterly:
		return 90, nil
	case Annual:
		return 365, nil
	case Quinquennial:
		return 5 * 365, nil
	default:
		return 0, fmt.Errorf("StepDays: %q: %w", string(f), ErrInvalidFrequency)
	}
}

// Dates generates projection dates by repeated fixed-day stepping from the
// evolution date while date <= maturity, appending maturity when the last
// generated date falls short of it.
func Dates(evolution, maturity time.Time, freq Frequency) ([]time.Time, error) {
	step, err := freq.StepDays()
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for d := evolution; !d.After(maturity); d = d.AddDate(0, 0, step) {
		dates = append(dates, d)
	}
	if len(dates) > 0 && dates[len(dates)-1].Before(maturity) {
		dates = append(dates, maturity)
	}
	return dates, nil
}

// Instrument is a bond prepared for projection: its schedule plus the fixed
// implied yield it will be revalued at.
type Instrument struct {
	ISIN              string
	Schedule          bond.Schedule
	CouponRatePercent float64
	FaceAmount        float64
	Frequency         int
	MaturityDate      time.Time
	// YieldPercent is the fixed implied yield assumption, in percent.
	YieldPercent float64
	// Weight is the notional weight for portfolio aggregation,
	// conventionally the dirty price.
	Weight float64
}

// Point is one projected valuation.
type Point struct {
	Date             time.Time
	CleanPrice       float64
	ModifiedDuration float64
}

// valueAt revalues the instrument on projection date d at its fixed yield.
// Dates on or after maturity contribute no point, and neither do dates
// whose settlement lands on or after maturity: nothing remains to discount.
func valueAt(inst Instrument, d time.Time, cal calendar.CalendarID) (Point, bool) {
	if !d.Before(inst.MaturityDate) {
		return Point{}, false
	}

	settlement := bond.SettlementDate(d, cal)
	if !settlement.Before(inst.MaturityDate) {
		return Point{}, false
	}
	y := inst.YieldPercent / 100.0
	fy := bond.NewFlatYield(inst.Schedule, settlement, y, inst.Frequency)

	cfs := inst.Schedule.Cashflows(inst.FaceAmount, inst.CouponRatePercent, inst.Frequency)
	dirty := bond.DirtyPrice(cfs, settlement, fy)
	accrued := bond.AccruedInterest(inst.Schedule, settlement, inst.FaceAmount, inst.CouponRatePercent, inst.Frequency)
	risk := bond.Analyze(inst.Schedule, settlement, y, inst.FaceAmount, inst.CouponRatePercent, inst.Frequency)

	return Point{
		Date:             d,
		CleanPrice:       dirty - accrued,
		ModifiedDuration: risk.ModifiedDuration,
	}, true
}

// ProjectBond produces the ordered projection series for one instrument.
// It is a pure function of its inputs; no state is shared across calls.
func ProjectBond(inst Instrument, evolution time.Time, freq Frequency, cal calendar.CalendarID) ([]Point, error) {
	dates, err := Dates(evolution, inst.MaturityDate, freq)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		if pt, ok := valueAt(inst, d, cal); ok {
			points = append(points, pt)
		}
	}
	return points, nil
}

// ProjectPortfolio produces the weighted-average projection series for a
// set of instruments:
//
//	value(date) = Σ weight_i·value_i / Σ weight_i
//
// Bonds matured on or before a date are excluded from that date's average;
// dates with zero total weight emit no point.
func ProjectPortfolio(insts []Instrument, evolution, horizon time.Time, freq Frequency, cal calendar.CalendarID) ([]Point, error) {
	dates, err := Dates(evolution, horizon, freq)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		var sumPrice, sumDur, sumWeight float64
		for _, inst := range insts {
			pt, ok := valueAt(inst, d, cal)
			if !ok {
				continue
			}
			sumPrice += pt.CleanPrice * inst.Weight
			sumDur += pt.ModifiedDuration * inst.Weight
			sumWeight += inst.Weight
		}
		if sumWeight == 0 {
			continue
		}
		points = append(points, Point{
			Date:             d,
			CleanPrice:       sumPrice / sumWeight,
			ModifiedDuration: sumDur / sumWeight,
		})
	}
	return points, nil
}
