package main

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/ops"
)

// setupWorkspace creates a config dir with a facts/ catalog and an optional config.json.
func setupWorkspace(t *testing.T, configJSON string, facts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range facts {
		factDir := filepath.Join(dir, "facts", name)
		require.NoError(t, os.MkdirAll(factDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(factDir, catalog.TextFile), []byte(text), 0o644))
		img := imaging.New(32, 24, color.NRGBA{R: 10, G: 200, B: 100, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(factDir, catalog.ImageFile)))
	}
	if configJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(configJSON), 0o600))
	}
	return dir
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"catfact"}, args...))
	return out.String(), err
}

func TestCLIList(t *testing.T) {
	dir := setupWorkspace(t, "", map[string]string{"10": "ten", "2": "two", "07": "seven"})

	out, err := run(t, "--config-dir", dir, "list")
	require.NoError(t, err)

	var result ops.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, []catalog.FactID{2, 7, 10}, result.IDs)
	require.Equal(t, 3, result.Count)

	// History database lands in the config dir by default.
	_, err = os.Stat(filepath.Join(dir, ".catfact", "catfact.db"))
	require.NoError(t, err)
}

func TestCLIList_FactsFlagOverridesConfig(t *testing.T) {
	dir := setupWorkspace(t, `{"facts_dir": "nowhere"}`, nil)
	other := setupWorkspace(t, "", map[string]string{"5": "five"})

	_, err := run(t, "--config-dir", dir, "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "CATALOG_UNAVAILABLE")

	out, err := run(t, "--config-dir", dir, "--facts", filepath.Join(other, "facts"), "list")
	require.NoError(t, err)
	require.Contains(t, out, `"count": 1`)
}

func TestCLIRender_ByID(t *testing.T) {
	dir := setupWorkspace(t, "", map[string]string{"3": "Cats spend 70% of their lives asleep."})
	outPath := filepath.Join(t.TempDir(), "card.png")

	out, err := run(t, "--config-dir", dir, "render", "--id", "3", "--out", outPath)
	require.NoError(t, err)

	var result renderOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, catalog.FactID(3), result.FactID)
	require.Equal(t, "Cats spend 70% of their lives asleep.", result.Caption)
	require.Equal(t, outPath, result.Out)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 1920, img.Bounds().Dx())
	require.Equal(t, 1080, img.Bounds().Dy())
}

func TestCLIRender_NextAndHistory(t *testing.T) {
	dir := setupWorkspace(t, "", map[string]string{"1": "one"})
	outPath := filepath.Join(t.TempDir(), "next.png")

	_, err := run(t, "--config-dir", dir, "render", "--out", outPath)
	require.NoError(t, err)
	_, err = run(t, "--config-dir", dir, "render", "--id", "9", "--out", outPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FACT_NOT_FOUND")

	out, err := run(t, "--config-dir", dir, "history", "--limit", "5")
	require.NoError(t, err)

	var result ops.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Items, 2)
	require.Equal(t, 5, result.Pagination.Limit)
	for _, item := range result.Items {
		require.Equal(t, "cli", item.Source)
	}
}

func TestCLIRender_Errors(t *testing.T) {
	dir := setupWorkspace(t, "", map[string]string{"1": "one"})

	_, err := run(t, "--config-dir", dir, "render")
	require.Error(t, err, "--out is required")

	_, err = run(t, "--config-dir", dir, "render", "--id", "-1", "--out", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestCLIRender_EmptyCatalog(t *testing.T) {
	dir := setupWorkspace(t, "", nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "facts"), 0o755))

	_, err := run(t, "--config-dir", dir, "render", "--out", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "EMPTY_CATALOG")
}

func TestCLIHistory_Disabled(t *testing.T) {
	dir := setupWorkspace(t, `{"disable_history": true}`, map[string]string{"1": "one"})

	_, err := run(t, "--config-dir", dir, "history")
	require.Error(t, err)
	require.Contains(t, err.Error(), "INVALID_REQUEST")

	_, err = os.Stat(filepath.Join(dir, ".catfact"))
	require.True(t, os.IsNotExist(err))
}

func TestCLIInvalidConfig(t *testing.T) {
	dir := setupWorkspace(t, `{not json`, nil)

	_, err := run(t, "--config-dir", dir, "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestCLIVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, Version))
}

func TestResolve(t *testing.T) {
	require.Equal(t, filepath.Join("cfg", "facts"), resolve("cfg", "facts"))
	require.Equal(t, "/abs/facts", resolve("cfg", "/abs/facts"))
	require.Equal(t, "", resolve("cfg", ""))
}
