package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/grantsql/internal/grant"
	"github.com/MrJamesThe3rd/grantsql/internal/profile"
	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
)

type Service struct {
	profile    profile.Profile
	classifier *grant.Classifier
	normalizer *grant.Normalizer
}

// NewService wires the classifier and normalizer for p. rates is asked for
// conversion rates; basis labels them in the output.
func NewService(p profile.Profile, rates grant.RateSource, basis string) *Service {
	return &Service{
		profile:    p,
		classifier: grant.NewClassifier(p.Columns.Name),
		normalizer: grant.NewNormalizer(p, rates, basis),
	}
}

// Run converts the whole table. It stops at the first bad row and then
// returns no result at all.
func (s *Service) Run(ctx context.Context, tbl *sheet.Table) (*Result, error) {
	if err := s.profile.Check(tbl.Header); err != nil {
		return nil, err
	}

	final, entries := s.classifier.Scan(tbl.Rows, grant.Context{})

	res := &Result{
		RunID:   uuid.New(),
		Context: final,
		Rows:    len(tbl.Rows),
	}

	index := make(map[string]int)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := s.normalizer.Normalize(ctx, e.Context, e.Row)
		if err != nil {
			return nil, err
		}

		currency := s.profile.CanonicalCurrency
		if d.Original != nil {
			currency = d.Original.Currency
		}

		i, ok := index[currency]
		if !ok {
			i = len(res.Buckets)
			index[currency] = i
			res.Buckets = append(res.Buckets, Bucket{
				Currency:  currency,
				Converted: d.Original != nil,
			})
		}

		res.Buckets[i].Donations = append(res.Buckets[i].Donations, d)
	}

	slog.Info("converted grants",
		"run_id", res.RunID,
		"rows", res.Rows,
		"donations", res.Donations(),
		"buckets", len(res.Buckets),
		"last_year", final.Year,
	)

	return res, nil
}

// Import runs the conversion and hands the buckets to sink. Nothing reaches
// the sink unless every row converted.
func (s *Service) Import(ctx context.Context, tbl *sheet.Table, sink Sink) (*Result, error) {
	res, err := s.Run(ctx, tbl)
	if err != nil {
		return nil, err
	}

	if len(res.Buckets) == 0 {
		slog.Warn("no donations to write", "run_id", res.RunID)
		return res, nil
	}

	if err := sink.Write(ctx, res.Buckets); err != nil {
		return nil, fmt.Errorf("writing donations: %w", err)
	}

	return res, nil
}
