package marketdata_test

import (
	"context"
	"testing"

	"github.com/meenmo/giltlib/marketdata"
)

var (
	_ marketdata.BondSource = marketdata.FileSource{}
	_ marketdata.SpotSource = marketdata.FileSource{}
	_ marketdata.BondSource = (*marketdata.Store)(nil)
	_ marketdata.SpotSource = (*marketdata.Store)(nil)
)

func TestFileSource(t *testing.T) {
	t.Parallel()

	src := marketdata.FileSource{
		BondsPath: writeFile(t, "bonds.json", `[
            {"description": "2% Treasury Gilt 2025", "isin": "GB00TEST0001",
             "coupon": 2.0, "maturity_date": "2025-09-07", "issue_date": "2020-06-03"}
        ]`),
		SpotPath: writeFile(t, "spot.json", `{"2024-06-03": [{"year": 1, "rate": 4.6}]}`),
	}

	bonds, err := src.Bonds(context.Background())
	if err != nil {
		t.Fatalf("Bonds error: %v", err)
	}
	if len(bonds) != 1 || bonds[0].ISIN != "GB00TEST0001" {
		t.Fatalf("bonds = %+v", bonds)
	}

	spots, err := src.SpotRates(context.Background())
	if err != nil {
		t.Fatalf("SpotRates error: %v", err)
	}
	if len(spots["2024-06-03"]) != 1 {
		t.Fatalf("spots = %+v", spots)
	}
}
