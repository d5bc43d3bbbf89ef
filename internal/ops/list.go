package ops

import (
	"context"

	"github.com/hpungsan/catfact/internal/catalog"
)

// ListOutput contains the result of the List operation.
type ListOutput struct {
	IDs   []catalog.FactID `json:"ids"`
	Count int              `json:"count"`
}

// List rescans the catalog and returns every fact id in ascending order.
func (s *Service) List(ctx context.Context) (*ListOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := s.catalog.List()
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if ids == nil {
		ids = []catalog.FactID{}
	}

	return &ListOutput{
		IDs:   ids,
		Count: len(ids),
	}, nil
}

// FactOutput contains the result of the Fact operation.
type FactOutput struct {
	ID      catalog.FactID `json:"id"`
	Caption string         `json:"caption"`
}

// Fact returns the caption of a single fact without decoding its image.
func (s *Service) Fact(ctx context.Context, id catalog.FactID) (*FactOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := s.catalog.Caption(id)
	if err != nil {
		return nil, err
	}

	return &FactOutput{
		ID:      id,
		Caption: text,
	}, nil
}
