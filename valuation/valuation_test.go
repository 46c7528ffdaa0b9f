package valuation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/meenmo/giltlib/curve"
	"github.com/meenmo/giltlib/marketdata"
	"github.com/meenmo/giltlib/utils"
	"github.com/meenmo/giltlib/valuation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSpots() marketdata.SpotFile {
	return marketdata.SpotFile{
		"2024-06-03": {
			{Year: 1, Rate: 4.6},
			{Year: 5, Rate: 4.1},
			{Year: 10, Rate: 4.3},
			{Year: 30, Rate: 4.6},
		},
	}
}

func coupon(pct float64) *float64 { return &pct }

func TestRun_PricesBatch(t *testing.T) {
	t.Parallel()

	bonds := []marketdata.BondRecord{
		{
			Description:  "4 1/4% Treasury Gilt 2034",
			ISIN:         "GB00GOOD0001",
			Coupon:       coupon(4.25),
			IssueDate:    "2021-01-29",
			MaturityDate: "2034-07-31",
		},
		{
			Description:  "8% Treasury Gilt 2021",
			ISIN:         "GB00DEAD0002",
			Coupon:       coupon(8.0),
			IssueDate:    "1996-02-29",
			MaturityDate: "2021-06-07",
		},
		{
			Description:  "2% Treasury Gilt 2025",
			ISIN:         "GB00FAIL0003",
			Coupon:       coupon(2.0),
			IssueDate:    "not-a-date",
			MaturityDate: "2025-09-07",
		},
	}

	results, cashflows, err := valuation.Run(context.Background(), "2024-06-03", bonds, testSpots(), testLogger())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	// Results preserve input order.
	for i, want := range []string{"GB00GOOD0001", "GB00DEAD0002", "GB00FAIL0003"} {
		if results[i].ISIN != want {
			t.Fatalf("results[%d].ISIN = %q, want %q", i, results[i].ISIN, want)
		}
	}

	good := results[0]
	if good.Error != "" {
		t.Fatalf("good bond errored: %q", good.Error)
	}
	if good.CleanPrice <= 0 || good.DirtyPrice < good.CleanPrice {
		t.Fatalf("prices: clean %v dirty %v", good.CleanPrice, good.DirtyPrice)
	}
	if math.Abs(good.DirtyPrice-good.CleanPrice-good.AccruedInterest) > 1e-9 {
		t.Fatalf("dirty %v != clean %v + accrued %v", good.DirtyPrice, good.CleanPrice, good.AccruedInterest)
	}
	// Implied yield lands in the neighbourhood of the curve.
	if good.ImpliedYield < 3.0 || good.ImpliedYield > 6.0 {
		t.Fatalf("ImpliedYield = %v%%", good.ImpliedYield)
	}
	if good.ModifiedDuration <= 0 || good.Convexity <= 0 || good.PV01 <= 0 {
		t.Fatalf("risk metrics: %+v", good)
	}
	if len(good.Sensitivities) != 9 {
		t.Fatalf("len(Sensitivities) = %d, want 9", len(good.Sensitivities))
	}
	for _, key := range []string{"-2.0%", "-0.5%", "+0.0%", "+0.5%", "+2.0%"} {
		if _, ok := good.Sensitivities[key]; !ok {
			t.Fatalf("missing sensitivity key %q", key)
		}
	}
	if s := good.Sensitivities["+0.0%"]; s.DeltaP != 0 || s.DeltaPPct != 0 {
		t.Fatalf("zero shift entry: %+v", s)
	}

	if results[1].Error != "bond has reached maturity" {
		t.Fatalf("matured bond Error = %q", results[1].Error)
	}
	if results[2].Error != "invalid date in issue_date" {
		t.Fatalf("bad date Error = %q", results[2].Error)
	}
	for _, i := range []int{1, 2} {
		if results[i].CleanPrice != 0 || len(results[i].Sensitivities) != 0 {
			t.Fatalf("failed bond has calculated fields: %+v", results[i])
		}
	}

	cfs, ok := cashflows["GB00GOOD0001"]
	if !ok {
		t.Fatal("no cashflows for priced bond")
	}
	for i, row := range cfs {
		d, err := utils.ParseDate(row.Date)
		if err != nil {
			t.Fatalf("cashflow date %q: %v", row.Date, err)
		}
		if d.Year() < 2024 {
			t.Fatalf("cashflow before settlement: %q", row.Date)
		}
		if row.Amount <= 0 {
			t.Fatalf("cashflow amount %v at %q", row.Amount, row.Date)
		}
		if i == len(cfs)-1 && row.Amount < 100 {
			t.Fatalf("redemption row amount %v", row.Amount)
		}
	}
	if _, ok := cashflows["GB00DEAD0002"]; ok {
		t.Fatal("cashflows recorded for failed bond")
	}
}

func TestRun_InterpolatedCurveDate(t *testing.T) {
	t.Parallel()

	spots := marketdata.SpotFile{
		"2024-06-03": {{Year: 1, Rate: 4.0}, {Year: 10, Rate: 4.4}},
		"2024-06-05": {{Year: 1, Rate: 4.2}, {Year: 10, Rate: 4.6}},
	}
	bonds := []marketdata.BondRecord{{
		Description:  "4 1/4% Treasury Gilt 2034",
		ISIN:         "GB00GOOD0001",
		Coupon:       coupon(4.25),
		IssueDate:    "2021-01-29",
		MaturityDate: "2034-07-31",
	}}

	results, _, err := valuation.Run(context.Background(), "2024-06-04", bonds, spots, testLogger())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if results[0].Error != "" {
		t.Fatalf("bond errored on interpolated date: %q", results[0].Error)
	}
	if results[0].CleanPrice <= 0 {
		t.Fatalf("CleanPrice = %v", results[0].CleanPrice)
	}
}

func TestRun_CurveDataMissing(t *testing.T) {
	t.Parallel()

	bonds := []marketdata.BondRecord{{
		ISIN:         "GB00GOOD0001",
		Coupon:       coupon(4.25),
		IssueDate:    "2021-01-29",
		MaturityDate: "2034-07-31",
	}}

	_, _, err := valuation.Run(context.Background(), "2019-01-02", bonds, testSpots(), testLogger())
	if !errors.Is(err, curve.ErrCurveDataMissing) {
		t.Fatalf("Run error = %v, want ErrCurveDataMissing", err)
	}
}

func TestRun_InvalidEvalDate(t *testing.T) {
	t.Parallel()

	_, _, err := valuation.Run(context.Background(), "03/06/2024", nil, testSpots(), testLogger())
	if !errors.Is(err, utils.ErrInvalidDate) {
		t.Fatalf("Run error = %v, want ErrInvalidDate", err)
	}
}
