package curve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meenmo/giltlib/utils"
)

var (
	// ErrCurveDataMissing is returned when no bracketing snapshots exist for
	// an evaluation date. Nothing can be priced without a curve, so callers
	// treat this as fatal to the whole run.
	ErrCurveDataMissing = errors.New("no bracketing spot curve snapshots")
)

// SpotPoint is a single tenor/rate observation within a snapshot.
//
// Rate is in percent (e.g. 4.0 == 4%). Tenors are strictly positive and
// unique within a snapshot.
type SpotPoint struct {
	TenorYears  float64
	RatePercent float64
}

// History maps ISO observation dates (YYYY-MM-DD) to spot curve snapshots,
// each ordered by tenor ascending. Snapshots are immutable once loaded.
type History map[string][]SpotPoint

// Resolve returns the spot points applicable on evalDate.
//
// If a snapshot exists for exactly evalDate it is returned unchanged.
// Otherwise the nearest snapshots strictly before and strictly after are
// located (lexicographic ordering of ISO dates) and each tenor present in
// both is linearly interpolated in elapsed time; tenors present on only one
// side are dropped. Missing a bracket on either side yields
// ErrCurveDataMissing.
func (h History) Resolve(evalDate string) ([]SpotPoint, error) {
	if pts, ok := h[evalDate]; ok && len(pts) > 0 {
		return pts, nil
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var before, after string
	for _, d := range keys {
		if d < evalDate {
			before = d
		} else if d > evalDate && before != "" {
			after = d
			break
		}
	}
	if before == "" || after == "" {
		return nil, fmt.Errorf("Resolve: %s: %w", evalDate, ErrCurveDataMissing)
	}

	return interpolateSnapshots(h[before], h[after], before, after, evalDate)
}

// interpolateSnapshots blends two snapshots linearly in time:
// rate = rateBefore + alpha*(rateAfter-rateBefore), alpha measured in
// elapsed days between the snapshot dates.
func interpolateSnapshots(ptsBefore, ptsAfter []SpotPoint, before, after, target string) ([]SpotPoint, error) {
	dBefore, err := utils.ParseDate(before)
	if err != nil {
		return nil, err
	}
	dAfter, err := utils.ParseDate(after)
	if err != nil {
		return nil, err
	}
	dTarget, err := utils.ParseDate(target)
	if err != nil {
		return nil, err
	}

	alpha := utils.Days(dBefore, dTarget) / utils.Days(dBefore, dAfter)

	afterByTenor := make(map[float64]float64, len(ptsAfter))
	for _, p := range ptsAfter {
		afterByTenor[p.TenorYears] = p.RatePercent
	}

	out := make([]SpotPoint, 0, len(ptsBefore))
	for _, p := range ptsBefore {
		rAfter, ok := afterByTenor[p.TenorYears]
		if !ok {
			continue
		}
		out = append(out, SpotPoint{
			TenorYears:  p.TenorYears,
			RatePercent: p.RatePercent + alpha*(rAfter-p.RatePercent),
		})
	}
	return out, nil
}
