package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/grantsql/internal/grant"
)

//go:generate mockgen -source=importer.go -destination=sink_mock.go -package=importer
type Sink interface {
	Write(ctx context.Context, buckets []Bucket) error
}

// Bucket groups donations that share an output schema. Converted buckets
// carry the original-currency columns.
type Bucket struct {
	Currency  string
	Converted bool
	Donations []grant.Donation
}

// Result is the outcome of one complete run.
type Result struct {
	RunID   uuid.UUID
	Context grant.Context // context after the last row
	Rows    int
	Buckets []Bucket
}

// Donations counts donations across all buckets.
func (r *Result) Donations() int {
	n := 0
	for _, b := range r.Buckets {
		n += len(b.Donations)
	}

	return n
}
