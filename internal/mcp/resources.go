package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) activeBlock(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	block, err := h.ds.ActiveBlock(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"active_block": block}
	if block != nil {
		days, err := h.ds.DaysForBlock(ctx, block.BlockID)
		if err != nil {
			h.log.Warn("active_block: days query failed", "error", err)
		}
		payload["days"] = days
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) planOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	blocks, err := h.ds.ListBlocks(ctx)
	if err != nil {
		return nil, err
	}

	overview := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		days, err := h.ds.DaysForBlock(ctx, b.BlockID)
		if err != nil {
			return nil, err
		}
		workouts, err := h.ds.WorkoutsByBlock(ctx, b.BlockID)
		if err != nil {
			return nil, err
		}
		overview = append(overview, map[string]any{
			"block":    b,
			"days":     days,
			"workouts": len(workouts),
		})
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
