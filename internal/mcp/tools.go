package mcp

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListBlocks = mcp.NewTool("list_blocks",
	mcp.WithDescription("List all training blocks, ordered by name. Exactly one block is active at a time."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Get the workout prescriptions of a training block, optionally filtered to one day. Each workout includes category, type, sets, reps/weight or duration, rest, and coaching cues."),
	mcp.WithString("block", mcp.Required(), mcp.Description("Block id (e.g. 'Week 1')")),
	mcp.WithString("day", mcp.Description("Day label (e.g. 'Day 1'). Omit for the whole block.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Get logged progress. With workout_id, returns the raw log for that workout; with block, returns the block's history joined to workout details, newest first."),
	mcp.WithString("workout_id", mcp.Description("Workout surrogate id")),
	mcp.WithString("block", mcp.Description("Block id")),
)

var toolGetBlockSummary = mcp.NewTool("get_block_summary",
	mcp.WithDescription("Summarize a block: day labels, workout count per day, and how many sets have been logged."),
	mcp.WithString("block", mcp.Required(), mcp.Description("Block id")),
)

// --- Tool handlers ---

func (h *handlers) listBlocks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks, err := h.ds.ListBlocks(ctx)
	if err != nil {
		h.log.Error("mcp list_blocks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(blocks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := req.RequireString("block")
	if err != nil {
		return mcp.NewToolResultError("block parameter is required"), nil
	}

	var workouts any
	if day := req.GetString("day", ""); day != "" {
		workouts, err = h.ds.WorkoutsByBlockAndDay(ctx, block, day)
	} else {
		workouts, err = h.ds.WorkoutsByBlock(ctx, block)
	}
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if idStr := req.GetString("workout_id", ""); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return mcp.NewToolResultError("workout_id must be an integer"), nil
		}
		entries, err := h.ds.ProgressByWorkout(ctx, id)
		if err != nil {
			h.log.Error("mcp get_progress", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(entries)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	block := req.GetString("block", "")
	if block == "" {
		return mcp.NewToolResultError("either workout_id or block is required"), nil
	}
	history, err := h.ds.ProgressHistory(ctx, block)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBlockSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := req.RequireString("block")
	if err != nil {
		return mcp.NewToolResultError("block parameter is required"), nil
	}

	workouts, err := h.ds.WorkoutsByBlock(ctx, block)
	if err != nil {
		h.log.Error("mcp get_block_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	history, err := h.ds.ProgressHistory(ctx, block)
	if err != nil {
		h.log.Error("mcp get_block_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	perDay := map[string]int{}
	for _, w := range workouts {
		perDay[w.Day]++
	}

	summary := map[string]any{
		"block":            block,
		"workouts":         len(workouts),
		"workouts_per_day": perDay,
		"sets_logged":      len(history),
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
