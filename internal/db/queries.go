package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/catfact/internal/errors"
)

// Serve is one recorded image request.
type Serve struct {
	ID         string `json:"id"`
	FactID     *int   `json:"fact_id"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	ServedAt   int64  `json:"served_at"`
}

// FactCount is the number of successful serves of one fact.
type FactCount struct {
	FactID int `json:"fact_id"`
	Count  int `json:"count"`
}

// InsertServe records a serve.
func InsertServe(ctx context.Context, db *sql.DB, s *Serve) error {
	var factID sql.NullInt64
	if s.FactID != nil {
		factID = sql.NullInt64{Int64: int64(*s.FactID), Valid: true}
	}

	query := `
		INSERT INTO serves (id, fact_id, source, status, duration_ms, served_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, s.ID, factID, s.Source, s.Status, s.DurationMS, s.ServedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RecentServes returns serves newest first, plus the total row count.
func RecentServes(ctx context.Context, db *sql.DB, limit, offset int) ([]Serve, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM serves").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, fact_id, source, status, duration_ms, served_at
		FROM serves
		ORDER BY served_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	serves := make([]Serve, 0, limit)
	for rows.Next() {
		var s Serve
		var factID sql.NullInt64
		if err := rows.Scan(&s.ID, &factID, &s.Source, &s.Status, &s.DurationMS, &s.ServedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		if factID.Valid {
			id := int(factID.Int64)
			s.FactID = &id
		}
		serves = append(serves, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return serves, total, nil
}

// ServeCounts returns successful serve counts per fact, ordered by fact id.
func ServeCounts(ctx context.Context, db *sql.DB) ([]FactCount, error) {
	query := `
		SELECT fact_id, COUNT(*)
		FROM serves
		WHERE fact_id IS NOT NULL AND status = 'ok'
		GROUP BY fact_id
		ORDER BY fact_id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var counts []FactCount
	for rows.Next() {
		var c FactCount
		if err := rows.Scan(&c.FactID, &c.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}
