package bond

import "time"

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in price-per-100 terms when FaceAmount is the conventional 100.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Master is the reference record for a fixed-rate bond. It is externally
// owned and read-only to the pricing code.
type Master struct {
	ISIN              string
	Description       string
	CouponRatePercent float64
	IssueDate         time.Time
	MaturityDate      time.Time
	// Frequency is coupons per year. Gilts pay semiannually.
	Frequency int
	// FaceAmount is the redemption amount, conventionally 100.
	FaceAmount float64
}

// DefaultFrequency is the semiannual coupon frequency used throughout.
const DefaultFrequency = 2

// DefaultFaceAmount is the conventional per-100 redemption amount.
const DefaultFaceAmount = 100.0

// PricedBond is the valuation output for one bond on one evaluation date.
// It is derived state, recomputed per (bond, date, curve/yield) combination.
type PricedBond struct {
	CleanPrice      float64
	DirtyPrice      float64
	AccruedInterest float64
}
