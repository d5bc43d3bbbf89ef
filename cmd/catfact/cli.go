package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/errors"
	"github.com/hpungsan/catfact/internal/mcp"
	"github.com/hpungsan/catfact/internal/ops"
	"github.com/hpungsan/catfact/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "catfact",
		Usage:   "Serve captioned cat fact images",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: ".", Usage: "Directory containing config.json"},
			&cli.StringFlag{Name: "facts", Usage: "Facts root directory (overrides facts_dir)"},
		},
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			listCmd(),
			renderCmd(),
			historyCmd(),
		},
		Action: serveAction,
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (default command)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (overrides bind)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides port)"},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return outputError(err)
	}
	defer e.Close()
	e.prime()

	srv := web.NewServer(e.svc, Version, e.cfg.Bind, e.cfg.Port)
	if err := web.Run(srv); err != nil {
		return outputError(err)
	}
	return nil
}

// mcpCmd creates the mcp command.
func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return outputError(err)
			}
			defer e.Close()
			e.prime()

			if err := mcp.Run(e.svc, e.cfg, Version); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// listCmd creates the list command.
func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List fact ids in the catalog",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return outputError(err)
			}
			defer e.Close()

			output, err := e.svc.List(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// renderOutput is the JSON summary printed by render.
type renderOutput struct {
	ServeID string         `json:"serve_id"`
	FactID  catalog.FactID `json:"fact_id"`
	Caption string         `json:"caption"`
	Out     string         `json:"out"`
	Bytes   int            `json:"bytes"`
}

// renderCmd creates the render command.
func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a fact card to a PNG file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "id", Usage: "Fact id (default: next from a fresh shuffle)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Output PNG path"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return outputError(err)
			}
			defer e.Close()

			var card *ops.CardOutput
			if c.IsSet("id") {
				id := c.Int("id")
				if id < 0 {
					return outputError(errors.NewInvalidRequest("fact id must be a non-negative integer"))
				}
				card, err = e.svc.Render(c.Context, catalog.FactID(id), ops.SourceCLI)
			} else {
				card, err = e.svc.Next(c.Context, ops.SourceCLI)
			}
			if err != nil {
				return outputError(err)
			}

			out := c.String("out")
			if err := os.WriteFile(out, card.PNG, 0644); err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(c.App.Writer, renderOutput{
				ServeID: card.ServeID,
				FactID:  card.FactID,
				Caption: card.Caption,
				Out:     out,
				Bytes:   len(card.PNG),
			})
		},
	}
}

// historyCmd creates the history command.
func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent serves",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Max items"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return outputError(err)
			}
			defer e.Close()

			output, err := e.svc.History(c.Context, ops.HistoryInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cErr, ok := errors.As(err); ok {
		if cErr.Code == errors.ErrInternal && cErr.Details["internal_error"] != nil {
			return cli.Exit(fmt.Sprintf("[%s] %s: %v", cErr.Code, cErr.Message, cErr.Details["internal_error"]), 1)
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
