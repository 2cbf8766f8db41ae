package mcp

import (
	"context"
	"log/slog"

	"github.com/Perentie01/fitflow/internal/models"
	"github.com/Perentie01/fitflow/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DataSource abstracts the store for MCP tools so tests can fake it.
type DataSource interface {
	ListBlocks(ctx context.Context) ([]models.Block, error)
	ActiveBlock(ctx context.Context) (*models.Block, error)
	WorkoutsByBlock(ctx context.Context, blockID string) ([]models.Workout, error)
	WorkoutsByBlockAndDay(ctx context.Context, blockID, day string) ([]models.Workout, error)
	DaysForBlock(ctx context.Context, blockID string) ([]string, error)
	ProgressByWorkout(ctx context.Context, workoutID int64) ([]models.Progress, error)
	ProgressHistory(ctx context.Context, blockID string) ([]models.ProgressDetail, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitFlow", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitFlow workout plan server. Query training blocks, workout prescriptions per day, and logged progress history."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListBlocks, Handler: h.listBlocks},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolGetBlockSummary, Handler: h.getBlockSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resActiveBlock, Handler: h.activeBlock},
		server.ServerResource{Resource: resPlanOverview, Handler: h.planOverview},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveBlock = mcp.NewResource(
	"fitflow://active_block",
	"Active Block",
	mcp.WithResourceDescription("The currently active training block with its day labels"),
	mcp.WithMIMEType("application/json"),
)

var resPlanOverview = mcp.NewResource(
	"fitflow://plan_overview",
	"Plan Overview",
	mcp.WithResourceDescription("All training blocks with their days and workout counts"),
	mcp.WithMIMEType("application/json"),
)
