package grant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/grantsql/internal/profile"
	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
)

//go:generate mockgen -source=normalize.go -destination=rates_mock.go -package=grant

// RateSource returns exchange rates for a day, as units of each currency per
// one unit of the canonical currency.
type RateSource interface {
	Rates(ctx context.Context, date time.Time) (map[string]float64, error)
}

var (
	datePattern     = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	locationPattern = regexp.MustCompile(`^[\p{L} ]+$`)
)

const dateLayout = "01/02/2006"

// Normalizer turns data rows into donations.
type Normalizer struct {
	profile    profile.Profile
	currencies *Currencies
	rates      RateSource
	basis      string
}

// NewNormalizer builds a normalizer for p. rates is only consulted for rows
// not in the canonical currency; basis names it in the output.
func NewNormalizer(p profile.Profile, rates RateSource, basis string) *Normalizer {
	return &Normalizer{
		profile:    p,
		currencies: NewCurrencies(p.Currencies),
		rates:      rates,
		basis:      basis,
	}
}

// Normalize validates row against the section it was listed under and
// builds its donation. Any error is a *RowError.
func (n *Normalizer) Normalize(ctx context.Context, section Context, row sheet.Row) (Donation, error) {
	d, err := n.normalize(ctx, section, row)
	if err != nil {
		return Donation{}, &RowError{
			Line:  row.Line,
			Donee: strings.TrimSpace(row.Get(n.profile.Columns.Name)),
			Err:   err,
		}
	}

	return d, nil
}

func (n *Normalizer) normalize(ctx context.Context, section Context, row sheet.Row) (Donation, error) {
	cols := n.profile.Columns

	if err := checkLocations(row, cols.City, cols.State, cols.Region); err != nil {
		return Donation{}, err
	}

	date, err := parseDate(row.Get(cols.Date))
	if err != nil {
		return Donation{}, err
	}

	if section.Year == 0 || section.Year != date.Year() {
		return Donation{}, &YearMismatchError{SectionYear: section.Year, DateYear: date.Year()}
	}

	money, err := n.currencies.Parse(row.Get(cols.Amount))
	if err != nil {
		return Donation{}, err
	}

	d := Donation{
		Donor:             n.profile.Donor,
		Donee:             strings.TrimSpace(row.Get(cols.Name)),
		Amount:            money.Value,
		Date:              date,
		DatePrecision:     n.profile.DatePrecision,
		DateBasis:         n.profile.DateBasis,
		CauseArea:         n.profile.Placeholder,
		URL:               n.profile.URL,
		DonorCauseAreaURL: n.profile.Placeholder,
		Notes:             n.notes(section, row),
		AffectedCountries: strings.TrimSpace(row.Get(cols.Region)),
		AffectedRegions:   n.profile.Placeholder,
		Line:              row.Line,
	}

	if money.Currency == n.profile.CanonicalCurrency {
		return d, nil
	}

	amount, err := n.convert(ctx, money, date)
	if err != nil {
		return Donation{}, err
	}

	d.Amount = amount
	d.Original = &OriginalCurrency{
		Amount:   money.Value,
		Currency: money.Currency,
		Date:     date,
		Basis:    n.basis,
	}

	return d, nil
}

// convert divides by the day's rate, which is quoted as units of the source
// currency per unit of the canonical one.
func (n *Normalizer) convert(ctx context.Context, m Money, date time.Time) (decimal.Decimal, error) {
	if n.rates == nil {
		return decimal.Decimal{}, &RateLookupError{Currency: m.Currency, Date: date, Err: fmt.Errorf("no rate source configured")}
	}

	table, err := n.rates.Rates(ctx, date)
	if err != nil {
		return decimal.Decimal{}, &RateLookupError{Currency: m.Currency, Date: date, Err: err}
	}

	rate, ok := table[m.Currency]
	if !ok {
		return decimal.Decimal{}, &RateLookupError{Currency: m.Currency, Date: date, Err: fmt.Errorf("rate missing from response")}
	}

	if rate <= 0 {
		return decimal.Decimal{}, &RateLookupError{Currency: m.Currency, Date: date, Err: fmt.Errorf("non-positive rate %v", rate)}
	}

	return m.Value.Div(decimal.NewFromFloat(rate)), nil
}

// notes names the program the grant was made under and its duration. The
// program country is not the grantee's country: a UK-program grant can go
// to a US organization, so it is kept out of affected_countries.
func (n *Normalizer) notes(section Context, row sheet.Row) string {
	var parts []string

	if section.Program != "" {
		name := section.Program
		if country, ok := n.profile.Country(section.Program); ok {
			name = country
		}

		parts = append(parts, name+" program")
	}

	if col := n.profile.Columns.Duration; col != "" {
		if months := strings.TrimSpace(row.Get(col)); months != "" {
			parts = append(parts, months+" month grant")
		}
	}

	if len(parts) == 0 {
		return n.profile.Placeholder
	}

	return strings.Join(parts, "; ")
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) {
		return time.Time{}, &DateFormatError{Value: s}
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &DateFormatError{Value: s, Err: err}
	}

	return t, nil
}

func checkLocations(row sheet.Row, columns ...string) error {
	for _, col := range columns {
		if col == "" {
			continue
		}

		v := strings.TrimSpace(row.Get(col))
		if v == "" {
			continue
		}

		if !locationPattern.MatchString(v) {
			return &LocationFormatError{Column: col, Value: v}
		}
	}

	return nil
}
