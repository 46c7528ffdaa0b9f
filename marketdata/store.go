package marketdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// Store loads bond masters and spot-rate snapshots from Postgres, where the
// extraction collaborators land their exports. The row shapes match the
// JSON interchange files field for field.
type Store struct {
	db *sql.DB
}

// OpenStore connects to Postgres with the given DSN.
func OpenStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenStore: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenStore: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Bonds returns every bond master record.
func (s *Store) Bonds(ctx context.Context) ([]BondRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, isin, coupon, maturity_date, issue_date,
		       next_coupon_date, amount
		FROM gilt_master
		ORDER BY isin`)
	if err != nil {
		return nil, fmt.Errorf("Bonds: %w", err)
	}
	defer rows.Close()

	var bonds []BondRecord
	for rows.Next() {
		var (
			b          BondRecord
			coupon     sql.NullFloat64
			issue      sql.NullString
			nextCoupon sql.NullString
			amount     sql.NullString
		)
		if err := rows.Scan(&b.Description, &b.ISIN, &coupon, &b.MaturityDate, &issue, &nextCoupon, &amount); err != nil {
			return nil, fmt.Errorf("Bonds: scan: %w", err)
		}
		if coupon.Valid {
			v := coupon.Float64
			b.Coupon = &v
		}
		b.IssueDate = issue.String
		b.NextCouponDate = nextCoupon.String
		if amount.Valid {
			b.Amount = json.Number(amount.String)
		}
		bonds = append(bonds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Bonds: %w", err)
	}
	return bonds, nil
}

// SpotRates returns all spot curve snapshots keyed by ISO observation date,
// points ordered by tenor ascending.
func (s *Store) SpotRates(ctx context.Context) (SpotFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT observation_date, tenor_years, rate_percent
		FROM spot_rates
		ORDER BY observation_date, tenor_years`)
	if err != nil {
		return nil, fmt.Errorf("SpotRates: %w", err)
	}
	defer rows.Close()

	spots := make(SpotFile)
	for rows.Next() {
		var (
			date  string
			entry SpotEntry
		)
		if err := rows.Scan(&date, &entry.Year, &entry.Rate); err != nil {
			return nil, fmt.Errorf("SpotRates: scan: %w", err)
		}
		spots[date] = append(spots[date], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SpotRates: %w", err)
	}
	return spots, nil
}
