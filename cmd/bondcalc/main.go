// Command bondcalc prices a bond master list against a spot curve for one
// evaluation date and writes per-bond price/risk results plus an
// ISIN-keyed cashflow file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meenmo/giltlib/marketdata"
	"github.com/meenmo/giltlib/valuation"
)

func main() {
	bondsPath := flag.String("bonds", "", "bond master JSON path")
	spotPath := flag.String("spot", "", "spot rates JSON path")
	dsn := flag.String("dsn", "", "Postgres DSN (overrides -bonds/-spot)")
	evalDate := flag.String("date", "", "evaluation date (YYYY-MM-DD)")
	outPath := flag.String("out", "results.json", "results output path")
	cashflowPath := flag.String("cashflows", "cashflows.json", "cashflow output path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *evalDate == "" {
		fmt.Fprintf(os.Stderr, "usage: bondcalc -date YYYY-MM-DD [-dsn ... | -bonds gilts.json -spot spot.json]\n")
		os.Exit(2)
	}

	ctx := context.Background()

	bonds, spots, err := loadInputs(ctx, *dsn, *bondsPath, *spotPath)
	if err != nil {
		logger.Error("load inputs", "error", err)
		os.Exit(1)
	}
	logger.Info("inputs loaded", "bonds", len(bonds), "snapshots", len(spots))

	results, cashflows, err := valuation.Run(ctx, *evalDate, bonds, spots, logger)
	if err != nil {
		// Curve failures are fatal: nothing downstream is valid without a curve.
		logger.Error("pricing run failed", "eval_date", *evalDate, "error", err)
		os.Exit(1)
	}

	if err := marketdata.WriteJSON(*outPath, results); err != nil {
		logger.Error("write results", "error", err)
		os.Exit(1)
	}
	if err := marketdata.WriteJSON(*cashflowPath, cashflows); err != nil {
		logger.Error("write cashflows", "error", err)
		os.Exit(1)
	}
	logger.Info("done", "results", *outPath, "cashflows", *cashflowPath)
}

func loadInputs(ctx context.Context, dsn, bondsPath, spotPath string) ([]marketdata.BondRecord, marketdata.SpotFile, error) {
	var src interface {
		marketdata.BondSource
		marketdata.SpotSource
	}

	if dsn != "" {
		store, err := marketdata.OpenStore(dsn)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		src = store
	} else {
		if bondsPath == "" || spotPath == "" {
			return nil, nil, fmt.Errorf("either -dsn or both -bonds and -spot are required")
		}
		src = marketdata.FileSource{BondsPath: bondsPath, SpotPath: spotPath}
	}

	bonds, err := src.Bonds(ctx)
	if err != nil {
		return nil, nil, err
	}
	spots, err := src.SpotRates(ctx)
	if err != nil {
		return nil, nil, err
	}
	return bonds, spots, nil
}
