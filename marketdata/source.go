package marketdata

import "context"

// BondSource supplies bond master records.
type BondSource interface {
	Bonds(ctx context.Context) ([]BondRecord, error)
}

// SpotSource supplies spot curve snapshots keyed by ISO observation date.
type SpotSource interface {
	SpotRates(ctx context.Context) (SpotFile, error)
}

// FileSource serves bond masters and spot snapshots from the JSON
// interchange files.
type FileSource struct {
	BondsPath string
	SpotPath  string
}

func (f FileSource) Bonds(ctx context.Context) ([]BondRecord, error) {
	return LoadBonds(f.BondsPath)
}

func (f FileSource) SpotRates(ctx context.Context) (SpotFile, error) {
	return LoadSpotRates(f.SpotPath)
}
