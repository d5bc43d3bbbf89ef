package ops

import (
	"bytes"
	"context"
	"database/sql"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hpungsan/catfact/internal/caption"
	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/compose"
	"github.com/hpungsan/catfact/internal/db"
	"github.com/hpungsan/catfact/internal/errors"
	"github.com/hpungsan/catfact/internal/shuffle"
)

// writeFact creates <root>/<name>/ with a caption and a small JPEG.
func writeFact(t *testing.T, root, name, text string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.TextFile), []byte(text), 0o644))
	img := imaging.New(64, 48, color.NRGBA{R: 30, G: 120, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, catalog.ImageFile)))
}

// newTestService builds a Service over root. History is enabled when withDB is set.
func newTestService(t *testing.T, root string, withDB bool) (*Service, *sql.DB) {
	t.Helper()
	cat := catalog.New(root)
	sel := shuffle.New(cat)
	r := caption.NewRenderer(caption.EmbeddedFont("goregular", goregular.TTF))

	var database *sql.DB
	if withDB {
		var err error
		database, err = db.Init(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
	}
	return NewService(cat, sel, r, database), database
}

func TestNext_RendersCardAndRecords(t *testing.T) {
	root := t.TempDir()
	writeFact(t, root, "1", "  Cats sleep a lot.\n")
	svc, _ := newTestService(t, root, true)
	ctx := context.Background()

	out, err := svc.Next(ctx, SourceHTTP)
	require.NoError(t, err)
	require.Equal(t, catalog.FactID(1), out.FactID)
	require.Equal(t, "Cats sleep a lot.", out.Caption)
	require.Len(t, out.ServeID, 26)

	img, err := png.Decode(bytes.NewReader(out.PNG))
	require.NoError(t, err)
	require.Equal(t, compose.CanvasWidth, img.Bounds().Dx())
	require.Equal(t, compose.CanvasHeight, img.Bounds().Dy())

	hist, err := svc.History(ctx, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	require.Equal(t, out.ServeID, hist.Items[0].ID)
	require.Equal(t, StatusOK, hist.Items[0].Status)
	require.Equal(t, "http", hist.Items[0].Source)
	require.Equal(t, 1, *hist.Items[0].FactID)
	require.Equal(t, []db.FactCount{{FactID: 1, Count: 1}}, hist.Counts)
}

func TestNext_EmptyCatalogRecordsFailure(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir(), true)
	ctx := context.Background()

	_, err := svc.Next(ctx, SourceMCP)
	require.True(t, errors.Is(err, errors.ErrEmptyCatalog))

	hist, err := svc.History(ctx, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	require.Nil(t, hist.Items[0].FactID)
	require.Equal(t, string(errors.ErrEmptyCatalog), hist.Items[0].Status)
	require.Empty(t, hist.Counts)
}

func TestNext_MissingRoot(t *testing.T) {
	svc, _ := newTestService(t, filepath.Join(t.TempDir(), "missing"), false)

	_, err := svc.Next(context.Background(), SourceCLI)
	require.True(t, errors.Is(err, errors.ErrCatalogUnavailable))
}

func TestNext_CorruptFactRecordsFactID(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "4")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.TextFile), []byte("no image"), 0o644))
	svc, _ := newTestService(t, root, true)
	ctx := context.Background()

	_, err := svc.Next(ctx, SourceHTTP)
	require.True(t, errors.Is(err, errors.ErrFactCorrupt))

	hist, err := svc.History(ctx, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	require.Equal(t, 4, *hist.Items[0].FactID)
	require.Equal(t, string(errors.ErrFactCorrupt), hist.Items[0].Status)
}

func TestRender_DoesNotTouchQueue(t *testing.T) {
	root := t.TempDir()
	writeFact(t, root, "1", "one")
	writeFact(t, root, "2", "two")
	svc, _ := newTestService(t, root, false)
	require.NoError(t, svc.selector.Refill())
	before := svc.selector.Pending()

	out, err := svc.Render(context.Background(), 2, SourceCLI)
	require.NoError(t, err)
	require.Equal(t, "two", out.Caption)
	require.NotEmpty(t, out.PNG)
	require.Equal(t, before, svc.selector.Pending())
}

func TestRender_NotFound(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir(), false)

	_, err := svc.Render(context.Background(), 9, SourceHTTP)
	require.True(t, errors.Is(err, errors.ErrFactNotFound))
}

func TestNext_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFact(t, root, "1", "one")
	svc, _ := newTestService(t, root, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Next(ctx, SourceHTTP)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, svc.selector.Pending())
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeFact(t, root, "10", "ten")
	writeFact(t, root, "2", "two")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))
	svc, _ := newTestService(t, root, false)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []catalog.FactID{2, 10}, out.IDs)
	require.Equal(t, 2, out.Count)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir(), false)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out.IDs)
	require.Zero(t, out.Count)
}

func TestFact(t *testing.T) {
	root := t.TempDir()
	writeFact(t, root, "3", "Cats have **whiskers**.\n")
	svc, _ := newTestService(t, root, false)

	out, err := svc.Fact(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, catalog.FactID(3), out.ID)
	require.Equal(t, "Cats have **whiskers**.", out.Caption)

	_, err = svc.Fact(context.Background(), 4)
	require.True(t, errors.Is(err, errors.ErrFactNotFound))
}

func TestHistory_Disabled(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir(), false)
	require.False(t, svc.HistoryEnabled())

	_, err := svc.History(context.Background(), HistoryInput{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestHistory_Pagination(t *testing.T) {
	svc, database := newTestService(t, t.TempDir(), true)
	ctx := context.Background()
	for i := range 25 {
		require.NoError(t, db.InsertServe(ctx, database, &db.Serve{
			ID:       generateULID(),
			Source:   "http",
			Status:   StatusOK,
			ServedAt: int64(i),
		}))
	}

	tests := []struct {
		name       string
		input      HistoryInput
		wantLimit  int
		wantOffset int
		wantLen    int
		wantMore   bool
	}{
		{"defaults", HistoryInput{}, DefaultHistoryLimit, 0, 20, true},
		{"second page", HistoryInput{Offset: 20}, DefaultHistoryLimit, 20, 5, false},
		{"clamped limit", HistoryInput{Limit: 1000}, MaxHistoryLimit, 0, 25, false},
		{"negative offset", HistoryInput{Limit: 5, Offset: -3}, 5, 0, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.History(ctx, tt.input)
			require.NoError(t, err)
			require.Len(t, out.Items, tt.wantLen)
			require.Equal(t, tt.wantLimit, out.Pagination.Limit)
			require.Equal(t, tt.wantOffset, out.Pagination.Offset)
			require.Equal(t, tt.wantMore, out.Pagination.HasMore)
			require.Equal(t, 25, out.Pagination.Total)
		})
	}
}
