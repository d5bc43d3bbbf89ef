package ops

import (
	"context"

	"github.com/hpungsan/catfact/internal/db"
	"github.com/hpungsan/catfact/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []db.Serve     `json:"items"`
	Counts     []db.FactCount `json:"counts"`
	Pagination Pagination     `json:"pagination"`
}

// History returns recent serves newest first plus per-fact serve counts.
func (s *Service) History(ctx context.Context, input HistoryInput) (*HistoryOutput, error) {
	if s.db == nil {
		return nil, errors.NewInvalidRequest("serve history is disabled")
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	serves, total, err := db.RecentServes(ctx, s.db, limit, offset)
	if err != nil {
		return nil, err
	}
	counts, err := db.ServeCounts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	if serves == nil {
		serves = []db.Serve{}
	}
	if counts == nil {
		counts = []db.FactCount{}
	}

	return &HistoryOutput{
		Items:  serves,
		Counts: counts,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(serves) < total,
			Total:   total,
		},
	}, nil
}
