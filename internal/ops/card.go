package ops

import (
	"context"
	"time"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/compose"
)

// CardOutput is one rendered fact card.
type CardOutput struct {
	ServeID string         `json:"serve_id"`
	FactID  catalog.FactID `json:"fact_id"`
	Caption string         `json:"caption"`
	PNG     []byte         `json:"-"`
}

// Next takes the next id from the shuffle queue and renders its card.
func (s *Service) Next(ctx context.Context, source Source) (*CardOutput, error) {
	started := time.Now()
	serveID := generateULID()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := s.selector.Next()
	if err != nil {
		s.record(ctx, serveID, nil, source, err, started)
		return nil, err
	}

	out, err := s.card(id)
	s.record(ctx, serveID, &id, source, err, started)
	if err != nil {
		return nil, err
	}
	out.ServeID = serveID
	return out, nil
}

// Render renders the card for a specific fact without touching the queue.
func (s *Service) Render(ctx context.Context, id catalog.FactID, source Source) (*CardOutput, error) {
	started := time.Now()
	serveID := generateULID()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.card(id)
	s.record(ctx, serveID, &id, source, err, started)
	if err != nil {
		return nil, err
	}
	out.ServeID = serveID
	return out, nil
}

// card loads a fact, builds the blurred-background composite and draws the caption.
func (s *Service) card(id catalog.FactID) (*CardOutput, error) {
	fact, err := s.catalog.Load(id)
	if err != nil {
		return nil, err
	}

	png, err := s.renderer.Render(compose.Card(fact.Image), fact.Caption)
	if err != nil {
		return nil, err
	}

	return &CardOutput{
		FactID:  fact.ID,
		Caption: fact.Caption,
		PNG:     png,
	}, nil
}
