package grant

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoYear is matched by a YearMismatchError raised for a data row that
// appears before any year marker.
var ErrNoYear = errors.New("no year marker before data row")

// UnknownCurrencyError is returned when an amount does not start with a
// recognized currency symbol.
type UnknownCurrencyError struct {
	Amount string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency in amount %q", e.Amount)
}

// AmountFormatError is returned when the text after the currency symbol is
// not a number.
type AmountFormatError struct {
	Amount string
	Err    error
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("malformed amount %q: %v", e.Amount, e.Err)
}

func (e *AmountFormatError) Unwrap() error { return e.Err }

// DateFormatError is returned for a date that is not a valid mm/dd/yyyy date.
type DateFormatError struct {
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("date %q is not in month/day/year format", e.Value)
	}

	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// YearMismatchError is returned when a row's date falls outside the year of
// the section it was listed under.
type YearMismatchError struct {
	SectionYear int // 0 when no year marker preceded the row
	DateYear    int
}

func (e *YearMismatchError) Error() string {
	if e.SectionYear == 0 {
		return fmt.Sprintf("row dated %d: %v", e.DateYear, ErrNoYear)
	}

	return fmt.Sprintf("row dated %d is listed under %d grants", e.DateYear, e.SectionYear)
}

func (e *YearMismatchError) Unwrap() error {
	if e.SectionYear == 0 {
		return ErrNoYear
	}

	return nil
}

// LocationFormatError is returned when a location cell holds anything other
// than letters and spaces, which in this export means a merged or
// multi-valued cell.
type LocationFormatError struct {
	Column string
	Value  string
}

func (e *LocationFormatError) Error() string {
	return fmt.Sprintf("column %q: unexpected location %q", e.Column, e.Value)
}

// RateLookupError is returned when no usable exchange rate could be obtained.
type RateLookupError struct {
	Currency string
	Date     time.Time
	Err      error
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("%s rate for %s: %v", e.Currency, e.Date.Format(time.DateOnly), e.Err)
}

func (e *RateLookupError) Unwrap() error { return e.Err }

// RowError attributes a normalization failure to its source row.
type RowError struct {
	Line  int
	Donee string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Donee, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
