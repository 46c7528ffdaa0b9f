// Command bondproj projects a single bond's clean price and modified
// duration forward at a fixed implied yield. On unrecoverable failure the
// output file is written as an empty array so downstream consumers still
// parse it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meenmo/giltlib/bond"
	"github.com/meenmo/giltlib/marketdata"
	"github.com/meenmo/giltlib/projection"
	"github.com/meenmo/giltlib/utils"
	"github.com/meenmo/giltlib/valuation"
)

func main() {
	inputPath := flag.String("input", "data.json", "projection request JSON path")
	outputPath := flag.String("output", "projection.json", "projection output path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rows, err := run(*inputPath, logger)
	if err != nil {
		logger.Error("projection failed", "error", err)
		// Signal "no data" without breaking the consumer's parse step.
		if werr := marketdata.WriteJSON(*outputPath, []marketdata.ProjectionRow{}); werr != nil {
			logger.Error("write empty output", "error", werr)
		}
		os.Exit(1)
	}

	if err := marketdata.WriteJSON(*outputPath, rows); err != nil {
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
	var req marketdata.SingleProjectionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	evolution, err := utils.ParseDate(req.EvolutionDate)
	if err != nil {
		return nil, err
	}
	maturity, err := utils.ParseDate(req.MaturityDate)
	if err != nil {
		return nil, err
	}
	issue, err := utils.ParseDate(req.IssueDate)
	if err != nil {
		return nil, err
	}
	freq, err := projection.ParseFrequency(req.ProjFrequency)
	if err != nil {
		return nil, err
	}

	couponFreq := req.Frequency
	if couponFreq == 0 {
		couponFreq = bond.DefaultFrequency
	}
	sched, err := bond.GenerateSchedule(issue, maturity, couponFreq, valuation.Cal)
	if err != nil {
		return nil, err
	}

	inst := projection.Instrument{
		ISIN:              req.ISIN,
		Schedule:          sched,
		CouponRatePercent: req.CouponRate * 100.0,
		FaceAmount:        bond.DefaultFaceAmount,
		Frequency:         couponFreq,
		MaturityDate:      maturity,
		YieldPercent:      req.Yield,
	}
	logger.Info("projecting bond", "isin", req.ISIN, "frequency", string(freq),
		"evolution_date", req.EvolutionDate, "maturity_date", req.MaturityDate)

	points, err := projection.ProjectBond(inst, evolution, freq, valuation.Cal)
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
