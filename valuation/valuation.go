// Package valuation orchestrates a batch pricing run: one discount curve
// per evaluation date, then price, implied yield, risk and cashflow
// extraction for every bond. Per-bond failures are recorded on that bond's
// result; only curve construction failures abort the run.
package valuation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/giltlib/bond"
	"github.com/meenmo/giltlib/calendar"
	"github.com/meenmo/giltlib/curve"
	"github.com/meenmo/giltlib/marketdata"
	"github.com/meenmo/giltlib/utils"
)

// Cal is the settlement calendar for the gilt market.
const Cal = calendar.GBP

// Sensitivity is one entry of the shock table, keyed in the output by the
// signed percent shift (e.g. "+0.5%").
type Sensitivity struct {
	PriceApprox float64 `json:"Price Approx"`
	DeltaP      float64 `json:"ΔP"`
	DeltaPPct   float64 `json:"ΔP (%)"`
}

// Result is the priced-and-risk output for one bond. Every input bond
// produces exactly one Result; failures set Error and leave the calculated
// fields zero.
type Result struct {
	marketdata.BondRecord

	CleanPrice       float64                `json:"Clean Price Calculated"`
	DirtyPrice       float64                `json:"Dirty Price Calculated"`
	AccruedInterest  float64                `json:"Accrued Interest Calculated"`
	ModifiedDuration float64                `json:"Modified Duration Calculated"`
	Convexity        float64                `json:"Convexity Calculated"`
	PV01             float64                `json:"PV01 Calculated"`
	ImpliedYield     float64                `json:"Implied Yield"`
	Sensitivities    map[string]Sensitivity `json:"Sensitivities (Approx),omitempty"`
	Error            string                 `json:"Error,omitempty"`
}

// Run prices every bond against the curve for evalDate (ISO date).
//
// The curve is built once and shared read-only across bonds; bonds are then
// priced concurrently and re-associated by ISIN. The returned slice has one
// entry per input bond in input order; the map carries each successfully
// priced bond's post-settlement cashflows keyed by ISIN.
func Run(ctx context.Context, evalDate string, bonds []marketdata.BondRecord, spots marketdata.SpotFile, logger *slog.Logger) ([]Result, map[string][]marketdata.CashflowRow, error) {
	evalDt, err := utils.ParseDate(evalDate)
	if err != nil {
		return nil, nil, err
	}

	points, err := spots.History().Resolve(evalDate)
	if err != nil {
		return nil, nil, err
	}
	zc, err := curve.Build(evalDt, points)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("discount curve built", "eval_date", evalDate, "nodes", zc.Nodes())

	settlement := bond.SettlementDate(evalDt, Cal)

	results := make([]Result, len(bonds))
	cashflows := make(map[string][]marketdata.CashflowRow, len(bonds))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rec := range bonds {
		i, rec := i, rec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, cfs := priceBond(rec, evalDt, settlement, zc)
			if res.Error != "" {
				logger.Warn("bond skipped", "isin", rec.ISIN, "error", res.Error)
			}

			mu.Lock()
			results[i] = res
			if len(cfs) > 0 {
				cashflows[rec.ISIN] = cfs
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, cashflows, nil
}

// priceBond runs the full per-bond pipeline. All failures are converted to
// the Error field so the batch keeps going.
func priceBond(rec marketdata.BondRecord, evalDt, settlement time.Time, zc *curve.ZeroCurve) (Result, []marketdata.CashflowRow) {
	res := Result{BondRecord: rec}

	issue, err := utils.ParseDate(rec.IssueDate)
	if err != nil {
		res.Error = "invalid date in issue_date"
		return res, nil
	}
	maturity, err := utils.ParseDate(rec.MaturityDate)
	if err != nil {
		res.Error = "invalid date in maturity_date"
		return res, nil
	}

	m := bond.Master{
		ISIN:              rec.ISIN,
		Description:       rec.Description,
		CouponRatePercent: rec.CouponPercent(),
		IssueDate:         issue,
		MaturityDate:      maturity,
		Frequency:         bond.DefaultFrequency,
		FaceAmount:        bond.DefaultFaceAmount,
	}

	if !evalDt.Before(maturity) {
		res.Error = "bond has reached maturity"
		return res, nil
	}

	sched, err := bond.GenerateSchedule(issue, maturity, m.Frequency, Cal)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	priced, err := bond.Price(m, sched, evalDt, settlement, zc)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	y, err := bond.SolveImpliedYield(sched, settlement, priced.CleanPrice, m.FaceAmount, m.CouponRatePercent, m.Frequency)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	risk := bond.Analyze(sched, settlement, y, m.FaceAmount, m.CouponRatePercent, m.Frequency)

	res.CleanPrice = priced.CleanPrice
	res.DirtyPrice = priced.DirtyPrice
	res.AccruedInterest = priced.AccruedInterest
	res.ImpliedYield = y * 100.0
	res.ModifiedDuration = risk.ModifiedDuration
	res.Convexity = risk.Convexity
	res.PV01 = risk.PV01
	res.Sensitivities = sensitivityMap(bond.SensitivityTable(priced.CleanPrice, risk.ModifiedDuration, risk.Convexity))

	var cfs []marketdata.CashflowRow
	for _, cf := range sched.Cashflows(m.FaceAmount, m.CouponRatePercent, m.Frequency) {
		if cf.Date.After(settlement) {
			cfs = append(cfs, marketdata.CashflowRow{
				Date:   cf.Date.Format(utils.ISODate),
				Amount: utils.RoundTo(cf.Amount(), 6),
			})
		}
	}
	return res, cfs
}

// sensitivityMap keys the shock table the way downstream consumers expect:
// signed one-decimal percent strings ("-2.0%" ... "+2.0%").
func sensitivityMap(table []bond.SensitivityPoint) map[string]Sensitivity {
	out := make(map[string]Sensitivity, len(table))
	for _, pt := range table {
		key := fmt.Sprintf("%+.1f%%", pt.YieldShiftPercent)
		out[key] = Sensitivity{
			PriceApprox: utils.RoundTo(pt.ApproxPrice, 6),
			DeltaP:      utils.RoundTo(pt.DeltaPrice, 6),
			DeltaPPct:   utils.RoundTo(pt.DeltaPricePercent, 4),
		}
	}
	return out
}
