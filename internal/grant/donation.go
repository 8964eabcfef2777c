package grant

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is one grant in the shape of the donations table. Amount is in
// the canonical currency.
type Donation struct {
	Donor             string
	Donee             string
	Amount            decimal.Decimal
	Date              time.Time
	DatePrecision     string
	DateBasis         string
	CauseArea         string
	URL               string
	DonorCauseAreaURL string
	Notes             string
	AffectedCountries string
	AffectedRegions   string

	// Original is set iff the sheet gave the amount in another currency.
	Original *OriginalCurrency

	// Line is the source line the donation was read from.
	Line int
}

// OriginalCurrency records how a converted amount was obtained.
type OriginalCurrency struct {
	Amount   decimal.Decimal
	Currency string
	Date     time.Time // date the rate was looked up for
	Basis    string    // where the rate came from
}
