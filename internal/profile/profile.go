package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Columns names the spreadsheet columns a profile reads. Names are matched
// exactly, including any trailing whitespace the export carries.
type Columns struct {
	Name     string `yaml:"name"`
	Amount   string `yaml:"amount"`
	Date     string `yaml:"date"`
	Region   string `yaml:"region"`
	City     string `yaml:"city"`
	State    string `yaml:"state"`
	Duration string `yaml:"duration"` // optional
}

// Profile describes one grant spreadsheet layout and the constant fields of
// the donations produced from it.
type Profile struct {
	Donor             string            `yaml:"donor"`
	URL               string            `yaml:"url"`
	Columns           Columns           `yaml:"columns"`
	Currencies        map[string]string `yaml:"currencies"` // symbol -> ISO code
	CanonicalCurrency string            `yaml:"canonical_currency"`
	Programs          map[string]string `yaml:"programs"` // program name -> country
	DatePrecision     string            `yaml:"date_precision"`
	DateBasis         string            `yaml:"date_basis"`
	Placeholder       string            `yaml:"placeholder"`
}

// Default returns the profile for the Unbound Philanthropy "who we fund" export.
func Default() Profile {
	return Profile{
		Donor: "Unbound Philanthropy",
		URL:   "https://www.unboundphilanthropy.org/who-we-fund",
		Columns: Columns{
			Name:     "Grantee Name ",
			Amount:   "Amount Awarded",
			Date:     "Date of Approval (listed as month/day/year)",
			Region:   "Region",
			City:     "Organization City",
			State:    "Organization State",
			Duration: "Duration of Grant (Months)",
		},
		Currencies:        map[string]string{"$": "USD", "£": "GBP"},
		CanonicalCurrency: "USD",
		Programs:          map[string]string{"UK": "United Kingdom", "US": "United States"},
		DatePrecision:     "day",
		DateBasis:         "donation log",
		Placeholder:       "FIXME",
	}
}

// Load reads a YAML profile from path. Fields left out of the file keep
// their Default values. A currencies or programs map in the file replaces
// the default map as a whole, so a profile can drop a default symbol.
func Load(path string) (Profile, error) {
	def := Default()

	p := def
	p.Currencies = nil
	p.Programs = nil

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	if p.Currencies == nil {
		p.Currencies = def.Currencies
	}

	if p.Programs == nil {
		p.Programs = def.Programs
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}

	return p, nil
}

// Validate reports configuration mistakes that would make every row fail.
func (p Profile) Validate() error {
	if p.Donor == "" {
		return fmt.Errorf("donor is required")
	}

	if p.Columns.Name == "" || p.Columns.Amount == "" || p.Columns.Date == "" {
		return fmt.Errorf("name, amount and date columns are required")
	}

	if len(p.Currencies) == 0 {
		return fmt.Errorf("at least one currency symbol is required")
	}

	for symbol, code := range p.Currencies {
		if symbol == "" || code == "" {
			return fmt.Errorf("currency %q -> %q: symbol and code must be non-empty", symbol, code)
		}
	}

	if !p.hasCurrency(p.CanonicalCurrency) {
		return fmt.Errorf("canonical currency %q has no symbol", p.CanonicalCurrency)
	}

	return nil
}

func (p Profile) hasCurrency(code string) bool {
	for _, c := range p.Currencies {
		if c == code {
			return true
		}
	}

	return false
}

// requiredCols returns the column names that must appear in the header.
func (p Profile) requiredCols() []string {
	cols := []string{p.Columns.Name, p.Columns.Amount, p.Columns.Date}

	for _, c := range []string{p.Columns.Region, p.Columns.City, p.Columns.State} {
		if c != "" {
			cols = append(cols, c)
		}
	}

	return cols
}

// Check verifies that every configured column is present in header.
func (p Profile) Check(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string

	for _, c := range p.requiredCols() {
		if _, ok := present[c]; !ok {
			missing = append(missing, fmt.Sprintf("%q", c))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("header is missing columns %s", strings.Join(missing, ", "))
	}

	return nil
}

// Country returns the country a program name stands for, if known.
func (p Profile) Country(program string) (string, bool) {
	c, ok := p.Programs[program]
	return c, ok
}
