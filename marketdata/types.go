// Package marketdata holds the interchange shapes handed to and from the
// valuation core, plus their JSON-file and Postgres-backed sources. The
// spreadsheet extraction that produces these records lives outside this
// repository.
package marketdata

import (
	"encoding/json"
)

// BondRecord is one bond master entry as exported by the reference data
// collaborator. Dates are YYYY-MM-DD. Coupon may be null when the
// description could not be parsed; Amount arrives stringly typed.
type BondRecord struct {
	Description    string      `json:"description"`
	ISIN           string      `json:"isin"`
	Coupon         *float64    `json:"coupon"`
	MaturityDate   string      `json:"maturity_date"`
	IssueDate      string      `json:"issue_date"`
	CouponSchedule []string    `json:"coupon_schedule,omitempty"`
	NextCouponDate string      `json:"next_coupon_date,omitempty"`
	Amount         json.Number `json:"amount,omitempty"`
}

// CouponPercent returns the coupon rate in percent, zero when absent.
func (b BondRecord) CouponPercent() float64 {
	if b.Coupon == nil {
		return 0
	}
	return *b.Coupon
}

// SpotEntry is one tenor/rate pair of a spot curve snapshot.
// Rate is in percent.
type SpotEntry struct {
	Year float64 `json:"year"`
	Rate float64 `json:"rate"`
}

// SpotFile maps ISO observation dates to spot curve snapshots.
type SpotFile map[string][]SpotEntry

// SingleProjectionRequest is the input of the single-bond projection tool.
type SingleProjectionRequest struct {
	ISIN          string  `json:"isin"`
	Description   string  `json:"description,omitempty"`
	EvolutionDate string  `json:"evolution_date"`
	MaturityDate  string  `json:"maturity_date"`
	IssueDate     string  `json:"issue_date"`
	Yield         float64 `json:"yield"`       // percent
	CouponRate    float64 `json:"coupon_rate"` // decimal
	Frequency     int     `json:"frequency"`
	ProjFrequency string  `json:"proj_frequency"`
}

// PortfolioBond is one holding of a portfolio projection request.
type PortfolioBond struct {
	ISIN         string  `json:"isin"`
	DirtyPrice   float64 `json:"dirty_price"`
	CleanPrice   float64 `json:"clean_price"`
	Coupon       float64 `json:"coupon"` // percent
	ImpliedYield float64 `json:"implied_yield"`
	MaturityDate string  `json:"maturity_date"`
	IssueDate    string  `json:"issue_date"`
}

// PortfolioProjectionRequest is the input of the portfolio projection tool.
type PortfolioProjectionRequest struct {
	EvolutionDate string          `json:"evolution_date"`
	ProjFrequency string          `json:"proj_frequency"`
	Bonds         []PortfolioBond `json:"bonds"`
}

// ProjectionRow is one output row of either projection tool.
type ProjectionRow struct {
	ProjectionDate   string  `json:"Projection Date"`
	CleanPrice       float64 `json:"Clean Price Projected"`
	ModifiedDuration float64 `json:"Modified Duration Projected"`
}

// PortfolioProjectionOutput wraps portfolio projections for downstream
// consumers.
type PortfolioProjectionOutput struct {
	Projections []ProjectionRow `json:"projections"`
}

// CashflowRow is one dated payment in the per-ISIN cashflow output.
type CashflowRow struct {
	Date   string  `json:"Date"`
	Amount float64 `json:"Amount"`
}
