// Package idgen hands out year-scoped transaction ids such as COLL-2026-001
// and the matching receipt or voucher numbers such as OR-2026-0001.
package idgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownKind = errors.New("unknown id kind")

type Sequences interface {
	Next(ctx context.Context, name string, year int) (int64, error)
}

type scheme struct {
	prefix    string
	reference string
}

var schemes = map[string]scheme{
	"collection":     {prefix: "COLL", reference: "OR"},
	"disbursement":   {prefix: "DISB", reference: "DV"},
	"dfur":           {prefix: "DFUR", reference: "DFUR"},
	"budget-entries": {prefix: "BUDG", reference: "DV"},
}

type IDs struct {
	TransactionID   string `json:"transaction_id"`
	ReferenceNumber string `json:"reference_number"`
}

type Generator struct {
	seq Sequences
	now func() time.Time
}

func New(seq Sequences) *Generator {
	return &Generator{seq: seq, now: time.Now}
}

// Next reserves the next ids for kind. Reference counters are shared by
// prefix, so disbursements and budget entries draw voucher numbers from one
// series.
func (g *Generator) Next(ctx context.Context, kind string) (IDs, error) {
	s, ok := schemes[kind]
	if !ok {
		return IDs{}, fmt.Errorf("%w %q, expected one of %s", ErrUnknownKind, kind, strings.Join(Kinds(), ", "))
	}
	year := g.now().Year()
	n, err := g.seq.Next(ctx, "txn:"+s.prefix, year)
	if err != nil {
		return IDs{}, fmt.Errorf("next %s id: %w", kind, err)
	}
	ref, err := g.seq.Next(ctx, "ref:"+s.reference, year)
	if err != nil {
		return IDs{}, fmt.Errorf("next %s reference: %w", kind, err)
	}
	return IDs{
		TransactionID:   fmt.Sprintf("%s-%d-%03d", s.prefix, year, n),
		ReferenceNumber: fmt.Sprintf("%s-%d-%04d", s.reference, year, ref),
	}, nil
}

func Kinds() []string {
	return []string{"collection", "disbursement", "dfur", "budget-entries"}
}
