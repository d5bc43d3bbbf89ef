package mcp

import "github.com/mark3labs/mcp-go/mcp"

var nextToolDef = mcp.NewTool("fact_next",
	mcp.WithDescription("Render the next cat fact card from the shuffle queue. "+
		"Returns the caption as text and the 1920x1080 card as a PNG image. "+
		"Every fact is served once before any fact repeats."),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithOpenWorldHintAnnotation(false),
)

var renderToolDef = mcp.NewTool("fact_render",
	mcp.WithDescription("Render the card for one fact by id without advancing the shuffle queue."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Fact id (the folder number in the catalog)"),
		mcp.Min(0),
	),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var listToolDef = mcp.NewTool("fact_list",
	mcp.WithDescription("List every fact id in the catalog in ascending order."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var getToolDef = mcp.NewTool("fact_get",
	mcp.WithDescription("Return the caption text of one fact."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Fact id"),
		mcp.Min(0),
	),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var historyToolDef = mcp.NewTool("fact_history",
	mcp.WithDescription("Recent serves, newest first, with per-fact serve counts."),
	mcp.WithNumber("limit",
		mcp.Description("Max items (default 20, max 100)"),
		mcp.Min(1),
		mcp.Max(100),
	),
	mcp.WithNumber("offset",
		mcp.Description("Items to skip"),
		mcp.Min(0),
	),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)
