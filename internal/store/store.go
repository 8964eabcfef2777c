package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/grantsql/internal/database"
	"github.com/MrJamesThe3rd/grantsql/internal/grant"
	"github.com/MrJamesThe3rd/grantsql/internal/importer"
)

// Store writes donations into the donations table.
type Store struct {
	db     *sql.DB
	driver database.Driver
}

func New(db *sql.DB, driver database.Driver) *Store {
	return &Store{db: db, driver: driver}
}

const insertColumns = `donor, donee, amount, donation_date, donation_date_precision,
	donation_date_basis, cause_area, url, donor_cause_area_url, notes,
	affected_countries, affected_regions, amount_original_currency,
	original_currency, currency_conversion_date, currency_conversion_basis`

const numInsertColumns = 16

// EnsureSchema creates the donations table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	id := "id BIGSERIAL PRIMARY KEY"
	if s.driver == database.DriverSQLite {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	query := `
		CREATE TABLE IF NOT EXISTS donations (
			` + id + `,
			donor TEXT NOT NULL,
			donee TEXT NOT NULL,
			amount NUMERIC(16, 2) NOT NULL,
			donation_date DATE NOT NULL,
			donation_date_precision TEXT,
			donation_date_basis TEXT,
			cause_area TEXT,
			url TEXT,
			donor_cause_area_url TEXT,
			notes TEXT,
			affected_countries TEXT,
			affected_regions TEXT,
			amount_original_currency NUMERIC,
			original_currency TEXT,
			currency_conversion_date DATE,
			currency_conversion_basis TEXT
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating donations table: %w", err)
	}

	return nil
}

func (s *Store) placeholders() string {
	ph := make([]string, numInsertColumns)
	for i := range ph {
		if s.driver == database.DriverPostgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}

	return strings.Join(ph, ", ")
}

// importLockKey serializes concurrent loads for the same donor.
func importLockKey(donor string) int64 {
	h := fnv.New64a()
	h.Write([]byte("donations"))
	h.Write([]byte{0})
	h.Write([]byte(donor))

	return int64(h.Sum64())
}

// Write inserts every donation in one transaction: either all rows land or
// none do.
func (s *Store) Write(ctx context.Context, buckets []importer.Bucket) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import tx: %w", err)
	}
	defer dbTx.Rollback()

	if s.driver == database.DriverPostgres {
		if donor := firstDonor(buckets); donor != "" {
			if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(donor)); err != nil {
				return fmt.Errorf("acquiring import lock: %w", err)
			}
		}
	}

	stmt, err := dbTx.PrepareContext(ctx, `INSERT INTO donations (`+insertColumns+`) VALUES (`+s.placeholders()+`)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range buckets {
		for _, d := range b.Donations {
			if _, err := stmt.ExecContext(ctx, args(d)...); err != nil {
				return fmt.Errorf("inserting donation from line %d: %w", d.Line, err)
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	return nil
}

func firstDonor(buckets []importer.Bucket) string {
	for _, b := range buckets {
		if len(b.Donations) > 0 {
			return b.Donations[0].Donor
		}
	}

	return ""
}

// args orders d's values as insertColumns. Empty text is stored as NULL,
// the same as the SQL printer renders it.
func args(d grant.Donation) []any {
	a := []any{
		nullable(d.Donor),
		nullable(d.Donee),
		d.Amount.StringFixed(2),
		d.Date.Format(time.DateOnly),
		nullable(d.DatePrecision),
		nullable(d.DateBasis),
		nullable(d.CauseArea),
		nullable(d.URL),
		nullable(d.DonorCauseAreaURL),
		nullable(d.Notes),
		nullable(d.AffectedCountries),
		nullable(d.AffectedRegions),
	}

	if o := d.Original; o != nil {
		return append(a,
			o.Amount.String(),
			nullable(o.Currency),
			o.Date.Format(time.DateOnly),
			nullable(o.Basis),
		)
	}

	return append(a, nil, nil, nil, nil)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
