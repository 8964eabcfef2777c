package grant

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount as written in the sheet: the currency its symbol
// stands for and the magnitude.
type Money struct {
	Currency string
	Value    decimal.Decimal
}

// Currencies recognizes the currency symbols an amount may start with.
type Currencies struct {
	codes   map[string]string
	symbols []string // longest first, so "US$" wins over "$"
}

func NewCurrencies(symbolToCode map[string]string) *Currencies {
	c := &Currencies{codes: make(map[string]string, len(symbolToCode))}

	for symbol, code := range symbolToCode {
		c.codes[symbol] = code
		c.symbols = append(c.symbols, symbol)
	}

	sort.Slice(c.symbols, func(i, j int) bool {
		if len(c.symbols[i]) != len(c.symbols[j]) {
			return len(c.symbols[i]) > len(c.symbols[j])
		}

		return c.symbols[i] < c.symbols[j]
	})

	return c
}

// Parse reads an amount such as "$1,500.00" or "£250". Grouping commas are
// ignored. An amount without a recognized leading symbol is an
// UnknownCurrencyError; the currency is never guessed.
func (c *Currencies) Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)

	for _, symbol := range c.symbols {
		rest, ok := strings.CutPrefix(s, symbol)
		if !ok {
			continue
		}

		clean := strings.TrimSpace(strings.ReplaceAll(rest, ",", ""))

		d, err := decimal.NewFromString(clean)
		if err != nil {
			return Money{}, &AmountFormatError{Amount: s, Err: err}
		}

		return Money{Currency: c.codes[symbol], Value: d}, nil
	}

	return Money{}, &UnknownCurrencyError{Amount: s}
}
