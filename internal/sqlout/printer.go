package sqlout

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/grantsql/internal/grant"
	"github.com/MrJamesThe3rd/grantsql/internal/importer"
)

// Columns is the donations column list shared by every bucket.
var Columns = []string{
	"donor", "donee", "amount", "donation_date",
	"donation_date_precision", "donation_date_basis", "cause_area", "url",
	"donor_cause_area_url", "notes", "affected_countries",
	"affected_regions",
}

// ConversionColumns follow Columns in buckets of converted donations.
var ConversionColumns = []string{
	"amount_original_currency", "original_currency", "currency_conversion_date",
	"currency_conversion_basis",
}

// Printer writes one insert statement per bucket.
type Printer struct {
	w     io.Writer
	table string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, table: "donations"}
}

func (p *Printer) Write(_ context.Context, buckets []importer.Bucket) error {
	bw := bufio.NewWriter(p.w)

	for _, b := range buckets {
		if len(b.Donations) == 0 {
			continue
		}

		writeStatement(bw, p.table, b)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing statements: %w", err)
	}

	return nil
}

func writeStatement(w *bufio.Writer, table string, b importer.Bucket) {
	cols := Columns
	if b.Converted {
		cols = append(append([]string{}, Columns...), ConversionColumns...)
	}

	fmt.Fprintf(w, "insert into %s (%s) values\n", table, wrapColumns(cols))

	for i, d := range b.Donations {
		sep := "    "
		if i > 0 {
			sep = "    ,"
		}

		w.WriteString(sep + Tuple(d, b.Converted) + "\n")
	}

	w.WriteString(";\n")
}

// wrapColumns lays the column list over lines of four names.
func wrapColumns(cols []string) string {
	var sb strings.Builder

	for i, c := range cols {
		switch {
		case i == 0:
		case i%4 == 0:
			sb.WriteString(",\n    ")
		default:
			sb.WriteString(", ")
		}

		sb.WriteString(c)
	}

	return sb.String()
}

// Tuple renders d as a parenthesized value list. With conversion set the
// four original-currency values are appended.
func Tuple(d grant.Donation, conversion bool) string {
	values := []string{
		Quote(d.Donor),
		Quote(d.Donee),
		Number(d.Amount),
		Quote(d.Date.Format(time.DateOnly)),
		Quote(d.DatePrecision),
		Quote(d.DateBasis),
		Quote(d.CauseArea),
		Quote(d.URL),
		Quote(d.DonorCauseAreaURL),
		Quote(d.Notes),
		Quote(d.AffectedCountries),
		Quote(d.AffectedRegions),
	}

	if conversion {
		if o := d.Original; o != nil {
			values = append(values,
				Exact(o.Amount),
				Quote(o.Currency),
				Quote(o.Date.Format(time.DateOnly)),
				Quote(o.Basis),
			)
		} else {
			values = append(values, Null, Null, Null, Null)
		}
	}

	return "(" + strings.Join(values, ",") + ")"
}

// Number renders an amount unquoted, to the cent.
func Number(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Exact renders an amount unquoted without losing digits. Amounts with at
// most two decimals still print to the cent.
func Exact(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return d.String()
	}

	return d.StringFixed(2)
}
