package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/errors"
	"github.com/hpungsan/catfact/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	svc *ops.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *ops.Service) *Handlers {
	return &Handlers{svc: svc}
}

// FactRequest represents the arguments for fact_render and fact_get.
type FactRequest struct {
	ID *int `json:"id"`
}

// HistoryRequest represents the arguments for fact_history.
type HistoryRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// cardMeta is the text part of a card result.
type cardMeta struct {
	ServeID string         `json:"serve_id"`
	FactID  catalog.FactID `json:"fact_id"`
	Caption string         `json:"caption"`
}

// HandleNext handles the fact_next tool call.
func (h *Handlers) HandleNext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.Next(ctx, ops.SourceMCP)
	if err != nil {
		return errorResult(err), nil
	}
	return cardResult(out), nil
}

// HandleRender handles the fact_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := factID(req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := h.svc.Render(ctx, id, ops.SourceMCP)
	if err != nil {
		return errorResult(err), nil
	}
	return cardResult(out), nil
}

// HandleList handles the fact_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.svc.List(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGet handles the fact_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := factID(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := h.svc.Fact(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistory handles the fact_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.svc.History(ctx, ops.HistoryInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// factID extracts and validates the required id argument.
func factID(req mcp.CallToolRequest) (catalog.FactID, error) {
	input, err := decode[FactRequest](req)
	if err != nil {
		return 0, errors.NewInvalidRequest(err.Error())
	}
	if input.ID == nil {
		return 0, errors.NewInvalidRequest("id is required")
	}
	if *input.ID < 0 {
		return 0, errors.NewInvalidRequest("fact id must be a non-negative integer")
	}
	return catalog.FactID(*input.ID), nil
}

// cardResult returns the card metadata as text and the PNG as image content.
func cardResult(out *ops.CardOutput) *mcp.CallToolResult {
	meta, _ := json.Marshal(cardMeta{
		ServeID: out.ServeID,
		FactID:  out.FactID,
		Caption: out.Caption,
	})
	return mcp.NewToolResultImage(string(meta), base64.StdEncoding.EncodeToString(out.PNG), "image/png")
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	cErr, ok := errors.As(err)
	if !ok {
		cErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    cErr.Code,
		"message": cErr.Message,
		"status":  cErr.Status,
	}
	// Only include details for non-internal errors to avoid leaking
	// sensitive info like file paths or SQL errors
	if cErr.Code != errors.ErrInternal && cErr.Details != nil {
		errorObj["details"] = cErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
