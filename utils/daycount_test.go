package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/giltlib/utils"
)

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC) // 182 days

	if got := utils.YearFraction(start, end, "ACT/365F"); math.Abs(got-182.0/365.0) > 1e-12 {
		t.Fatalf("ACT/365F = %v", got)
	}
	if got := utils.YearFraction(start, end, "ACT/360"); math.Abs(got-182.0/360.0) > 1e-12 {
		t.Fatalf("ACT/360 = %v", got)
	}
	if got := utils.YearFraction(start, end, "30/360"); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("30/360 = %v", got)
	}
}

func TestPeriodFraction(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	if got := utils.PeriodFraction(start, end, start); got != 0 {
		t.Fatalf("fraction at start = %v", got)
	}
	if got := utils.PeriodFraction(start, end, end); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("fraction at end = %v", got)
	}

	mid := start.AddDate(0, 0, 91)
	if got := utils.PeriodFraction(start, end, mid); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("fraction at midpoint = %v", got)
	}

	// Degenerate period guards against division by zero.
	if got := utils.PeriodFraction(start, start, end); got != 0 {
		t.Fatalf("degenerate period = %v", got)
	}
}
