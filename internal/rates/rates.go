// Package rates looks up historical exchange rates.
package rates

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source returns the exchange rates in effect on date, keyed by ISO
// currency code, quoted as units of that currency per one unit of the base.
type Source interface {
	Rates(ctx context.Context, date time.Time) (map[string]float64, error)
}

// Static serves the same table for every date. It backs offline runs.
type Static map[string]float64

func (s Static) Rates(_ context.Context, _ time.Time) (map[string]float64, error) {
	out := make(map[string]float64, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out, nil
}

// ParseStatic parses "GBP=0.8" style pairs.
func ParseStatic(pairs []string) (Static, error) {
	s := make(Static, len(pairs))

	for _, p := range pairs {
		code, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("rate %q: expected CODE=RATE", p)
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", p, err)
		}

		if rate <= 0 {
			return nil, fmt.Errorf("rate %q: must be positive", p)
		}

		s[strings.ToUpper(strings.TrimSpace(code))] = rate
	}

	return s, nil
}
