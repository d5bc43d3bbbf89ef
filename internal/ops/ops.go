package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/catfact/internal/caption"
	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/db"
	"github.com/hpungsan/catfact/internal/errors"
	"github.com/hpungsan/catfact/internal/shuffle"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Source identifies the surface a serve came through.
type Source string

const (
	SourceHTTP Source = "http"
	SourceMCP  Source = "mcp"
	SourceCLI  Source = "cli"
)

// StatusOK is the history status of a successful serve.
const StatusOK = "ok"

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Service wires the catalog, the shuffle queue and the caption renderer
// behind the operations every surface shares.
type Service struct {
	catalog  *catalog.Catalog
	selector *shuffle.Selector
	renderer *caption.Renderer
	db       *sql.DB // nil disables serve history
}

// NewService creates a Service. database may be nil.
func NewService(cat *catalog.Catalog, sel *shuffle.Selector, r *caption.Renderer, database *sql.DB) *Service {
	return &Service{
		catalog:  cat,
		selector: sel,
		renderer: r,
		db:       database,
	}
}

// Catalog returns the underlying fact catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// HistoryEnabled reports whether serves are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.db != nil
}

// record writes one serve row. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, serveID string, id *catalog.FactID, source Source, err error, started time.Time) {
	status := StatusOK
	if err != nil {
		status = string(errors.CodeOf(err))
	}
	elapsed := time.Since(started)

	fact := "-"
	var factID *int
	if id != nil {
		fact = id.String()
		n := int(*id)
		factID = &n
	}
	log.Printf("serve %s fact=%s source=%s status=%s duration=%s", serveID, fact, source, status, elapsed.Round(time.Millisecond))

	if s.db == nil {
		return
	}
	row := &db.Serve{
		ID:         serveID,
		FactID:     factID,
		Source:     string(source),
		Status:     status,
		DurationMS: elapsed.Milliseconds(),
		ServedAt:   started.Unix(),
	}
	if err := db.InsertServe(context.WithoutCancel(ctx), s.db, row); err != nil {
		log.Printf("serve %s: history write failed: %v", serveID, err)
	}
}

// generateULID generates a new ULID.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
