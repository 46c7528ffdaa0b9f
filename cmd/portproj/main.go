// Command portproj projects a portfolio's dirty-price-weighted clean price
// and modified duration forward at each bond's fixed implied yield. On
// unrecoverable failure the output is written with an empty projections
// array so downstream consumers still parse it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meenmo/giltlib/bond"
	"github.com/meenmo/giltlib/marketdata"
	"github.com/meenmo/giltlib/projection"
	"github.com/meenmo/giltlib/utils"
	"github.com/meenmo/giltlib/valuation"
)

func main() {
	inputPath := flag.String("input", "data.json", "portfolio request JSON path")
	outputPath := flag.String("output", "projection.json", "projection output path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rows, err := run(*inputPath, logger)
	if err != nil {
		logger.Error("portfolio projection failed", "error", err)
		if werr := marketdata.WriteJSON(*outputPath, marketdata.PortfolioProjectionOutput{Projections: []marketdata.ProjectionRow{}}); werr != nil {
			logger.Error("write empty output", "error", werr)
		}
		os.Exit(1)
	}

	if err := marketdata.WriteJSON(*outputPath, marketdata.PortfolioProjectionOutput{Projections: rows}); err != nil {
		logger.Error("write output", "error", err)
		os.Exit(1)
	}
	logger.Info("done", "points", len(rows), "output", *outputPath)
}

func run(inputPath string, logger *slog.Logger) ([]marketdata.ProjectionRow, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var req marketdata.PortfolioProjectionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	evolution, err := utils.ParseDate(req.EvolutionDate)
	if err != nil {
		return nil, err
	}
	freq, err := projection.ParseFrequency(req.ProjFrequency)
	if err != nil {
		return nil, err
	}

	// Malformed holdings are skipped, not fatal: the remaining bonds still
	// produce a weighted average.
	var insts []projection.Instrument
	var horizon time.Time
	for _, b := range req.Bonds {
		inst, maturity, err := instrument(b)
		if err != nil {
			logger.Warn("holding skipped", "isin", b.ISIN, "error", err)
			continue
		}
		insts = append(insts, inst)
		if maturity.After(horizon) {
			horizon = maturity
		}
	}
	if len(insts) == 0 {
		return nil, fmt.Errorf("no usable holdings")
	}
	logger.Info("projecting portfolio", "holdings", len(insts), "frequency", string(freq))

	points, err := projection.ProjectPortfolio(insts, evolution, horizon, freq, valuation.Cal)
	if err != nil {
		return nil, err
	}

	rows := make([]marketdata.ProjectionRow, 0, len(points))
	for _, pt := range points {
		rows = append(rows, marketdata.ProjectionRow{
			ProjectionDate:   pt.Date.Format(utils.ISODate),
			CleanPrice:       utils.RoundTo(pt.CleanPrice, 6),
			ModifiedDuration: utils.RoundTo(pt.ModifiedDuration, 6),
		})
	}
	return rows, nil
}

func instrument(b marketdata.PortfolioBond) (projection.Instrument, time.Time, error) {
	maturity, err := utils.ParseDate(b.MaturityDate)
	if err != nil {
		return projection.Instrument{}, time.Time{}, err
	}
	issue, err := utils.ParseDate(b.IssueDate)
	if err != nil {
		return projection.Instrument{}, time.Time{}, err
	}

	sched, err := bond.GenerateSchedule(issue, maturity, bond.DefaultFrequency, valuation.Cal)
	if err != nil {
		return projection.Instrument{}, time.Time{}, err
	}

	return projection.Instrument{
		ISIN:              b.ISIN,
		Schedule:          sched,
		CouponRatePercent: b.Coupon,
		FaceAmount:        bond.DefaultFaceAmount,
		Frequency:         bond.DefaultFrequency,
		MaturityDate:      maturity,
		YieldPercent:      b.ImpliedYield,
		Weight:            b.DirtyPrice,
	}, maturity, nil
}
