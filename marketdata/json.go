package marketdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meenmo/giltlib/curve"
)

// LoadBonds reads a bond master JSON file (array of BondRecord).
func LoadBonds(path string) ([]BondRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadBonds: %w", err)
	}
	var bonds []BondRecord
	if err := json.Unmarshal(raw, &bonds); err != nil {
		return nil, fmt.Errorf("LoadBonds: %s: %w", path, err)
	}
	return bonds, nil
}

// LoadSpotRates reads a spot rate JSON file keyed by ISO observation date.
func LoadSpotRates(path string) (SpotFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSpotRates: %w", err)
	}
	var spots SpotFile
	if err := json.Unmarshal(raw, &spots); err != nil {
		return nil, fmt.Errorf("LoadSpotRates: %s: %w", path, err)
	}
	return spots, nil
}

// History converts the wire shape into the curve package's snapshot
// history.
func (f SpotFile) History() curve.History {
	h := make(curve.History, len(f))
	for date, entries := range f {
		pts := make([]curve.SpotPoint, 0, len(entries))
		for _, e := range entries {
			pts = append(pts, curve.SpotPoint{TenorYears: e.Year, RatePercent: e.Rate})
		}
		h[date] = pts
	}
	return h
}

// WriteJSON marshals v with indentation to path.
func WriteJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("WriteJSON: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("WriteJSON: %s: %w", path, err)
	}
	return nil
}
