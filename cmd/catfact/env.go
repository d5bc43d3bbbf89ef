package main

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/catfact/internal/caption"
	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/config"
	"github.com/hpungsan/catfact/internal/db"
	"github.com/hpungsan/catfact/internal/mcp"
	"github.com/hpungsan/catfact/internal/ops"
	"github.com/hpungsan/catfact/internal/shuffle"
)

// env is everything a command needs, built from config plus flags.
type env struct {
	cfg      *config.Config
	db       *sql.DB
	selector *shuffle.Selector
	svc      *ops.Service
}

// loadConfig reads <config-dir>/config.json and applies flag overrides.
// Relative paths in the file are resolved against the config directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	dir := c.String("config-dir")
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.FactsDir = resolve(dir, cfg.FactsDir)
	cfg.DataDir = resolve(dir, cfg.DataDir)

	if c.IsSet("facts") {
		cfg.FactsDir = c.String("facts")
	}
	if c.IsSet("bind") {
		cfg.Bind = c.String("bind")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Printf("WARNING: unknown tools in disabled_tools: %v", unknown)
	}
	return cfg, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// newEnv wires the catalog, selector, renderer and optional history store.
func newEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	var database *sql.DB
	if !cfg.DisableHistory {
		database, err = db.Init(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	cat := catalog.New(cfg.FactsDir)
	sel := shuffle.New(cat)
	renderer := caption.NewRenderer()
	log.Printf("caption font: %s", renderer.FontName())

	return &env{
		cfg:      cfg,
		db:       database,
		selector: sel,
		svc:      ops.NewService(cat, sel, renderer, database),
	}, nil
}

// prime fills the shuffle queue at startup. A missing or empty catalog
// is only a warning: every request rescans and reports it.
func (e *env) prime() {
	if err := e.selector.Refill(); err != nil {
		log.Printf("WARNING: shuffle queue not primed: %v", err)
	}
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}
