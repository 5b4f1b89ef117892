package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitflow/internal/volume"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered. lm is
// the landmark table used by classify_volume and list_muscle_groups.
func New(ds DataSource, lm volume.Landmarks, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitFlow", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitFlow training planner. Inspect planned and completed weekly volume per muscle group against MEV/MAV/MRV landmarks, mesocycle phase, and daily recovery. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, lm: lm, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetVolumeAnalysis, Handler: h.getVolumeAnalysis},
		server.ServerTool{Tool: toolGetCurrentWeekVolume, Handler: h.getCurrentWeekVolume},
		server.ServerTool{Tool: toolGetVolumeTrends, Handler: h.getVolumeTrends},
		server.ServerTool{Tool: toolClassifyVolume, Handler: h.classifyVolume},
		server.ServerTool{Tool: toolGetRecoveryToday, Handler: h.getRecoveryToday},
		server.ServerTool{Tool: toolGetAdjustedDay, Handler: h.getAdjustedDay},
		server.ServerTool{Tool: toolListMuscleGroups, Handler: h.listMuscleGroups},
		server.ServerTool{Tool: toolGetActiveProgram, Handler: h.getActiveProgram},
		server.ServerTool{Tool: toolGet1RMProgression, Handler: h.get1RMProgression},
		server.ServerTool{Tool: toolGetLastPerformance, Handler: h.getLastPerformance},
		server.ServerTool{Tool: toolGetConsistencyMetrics, Handler: h.getConsistencyMetrics},
	)

	s.AddResources(
		server.ServerResource{Resource: resLandmarks, Handler: h.landmarksResource},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	lm  volume.Landmarks
	log *slog.Logger
}
