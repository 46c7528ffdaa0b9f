package bond

import "errors"

var (
	// ErrMaturedBond is returned when the evaluation date is on or after
	// maturity. Recorded per bond; it never aborts a batch.
	ErrMaturedBond = errors.New("bond has reached maturity")

	// ErrInvalidSchedule is returned for malformed bond dates or an
	// unsupported coupon frequency.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrYieldNotFound is returned when the yield solver fails to converge
	// or to bracket a root within the allowed rate range.
	ErrYieldNotFound = errors.New("yield not found")
)
