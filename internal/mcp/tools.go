package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

// --- Tool definitions ---

var toolGetVolumeAnalysis = mcp.NewTool("get_volume_analysis",
	mcp.WithDescription("Planned weekly sets per muscle group for a program, classified against MEV/MAV/MRV landmarks, with warnings for groups below MEV or above MRV."),
	mcp.WithNumber("program_id", mcp.Required(), mcp.Description("Program ID")),
)

var toolGetCurrentWeekVolume = mcp.NewTool("get_current_week_volume",
	mcp.WithDescription("Completed vs planned sets per muscle group for the current ISO week (Monday to Sunday), with completion percentage and zone."),
)

var toolGetVolumeTrends = mcp.NewTool("get_volume_trends",
	mcp.WithDescription("Completed sets per muscle group per ISO week over recent weeks, oldest first."),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks to look back (1-52). Defaults to 8.")),
	mcp.WithString("muscle_group", mcp.Description("Restrict to one muscle group (e.g. chest, lats, quads)")),
)

var toolClassifyVolume = mcp.NewTool("classify_volume",
	mcp.WithDescription("Classify a weekly set count for a muscle group: below_mev, adequate, optimal or above_mrv."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group name")),
	mcp.WithNumber("sets", mcp.Required(), mcp.Description("Weekly set count")),
)

var toolGetRecoveryToday = mcp.NewTool("get_recovery_today",
	mcp.WithDescription("Today's recovery assessment (sleep, soreness, motivation), total score and volume adjustment directive."),
)

var toolGetAdjustedDay = mcp.NewTool("get_adjusted_day",
	mcp.WithDescription("A program day's exercises with set counts adjusted by the recovery directive for a date."),
	mcp.WithNumber("program_day_id", mcp.Required(), mcp.Description("Program day ID")),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolListMuscleGroups = mcp.NewTool("list_muscle_groups",
	mcp.WithDescription("All muscle groups with their MEV/MAV/MRV weekly set landmarks."),
)

var toolGetActiveProgram = mcp.NewTool("get_active_program",
	mcp.WithDescription("The current training program with its mesocycle phase, days and each day's exercises (sets, rep range, RIR, order). Program exercise and day IDs come from here."),
)

var toolGet1RMProgression = mcp.NewTool("get_1rm_progression",
	mcp.WithDescription("Best estimated one-rep max per workout date for an exercise, using Epley with reps in reserve: weight * (1 + (reps - rir) / 30)."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithString("start_date", mcp.Description("First date (YYYY-MM-DD). Defaults to 12 weeks before end_date.")),
	mcp.WithString("end_date", mcp.Description("Last date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetLastPerformance = mcp.NewTool("get_last_performance",
	mcp.WithDescription("Sets of the most recent completed workout containing an exercise, with the best estimated one-rep max."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
)

var toolGetConsistencyMetrics = mcp.NewTool("get_consistency_metrics",
	mcp.WithDescription("Workout adherence: total workouts, completed workouts, completion rate and average session duration in seconds."),
)

// --- Tool handlers ---

func (h *handlers) getVolumeAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programID, err := req.RequireInt("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	analysis, err := h.ds.GetVolumeAnalysis(ctx, uid, int64(programID))
	if err != nil {
		return h.queryError("get_volume_analysis", err), nil
	}
	return jsonResult(analysis), nil
}

func (h *handlers) getCurrentWeekVolume(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.ds.CurrentWeekVolume(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.queryError("get_current_week_volume", err), nil
	}
	return jsonResult(report), nil
}

func (h *handlers) getVolumeTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", planner.DefaultTrendWeeks)
	group := req.GetString("muscle_group", "")

	trends, err := h.ds.VolumeTrends(ctx, UserIDFromContext(ctx), weeks, group)
	if err != nil {
		return h.queryError("get_volume_trends", err), nil
	}
	return jsonResult(trends), nil
}

func (h *handlers) classifyVolume(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	sets, err := req.RequireInt("sets")
	if err != nil {
		return mcp.NewToolResultError("sets parameter is required"), nil
	}
	if sets < 0 {
		return mcp.NewToolResultError("sets must not be negative"), nil
	}

	m, err := volume.ParseMuscleGroup(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	l, ok := h.lm.For(m)
	if !ok {
		return mcp.NewToolResultError("no landmarks configured for " + string(m)), nil
	}

	z := volume.Classify(sets, l)
	return jsonResult(volume.PlannedGroup{
		MuscleGroup:       m,
		PlannedWeeklySets: sets,
		MEV:               l.MEV,
		MAV:               l.MAV,
		MRV:               l.MRV,
		Zone:              z,
		Warning:           volume.ZoneMessage(m, z),
	}), nil
}

func (h *handlers) getRecoveryToday(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := h.ds.TodayRecoveryAssessment(ctx, UserIDFromContext(ctx))
	if errors.Is(err, planner.ErrNotFound) {
		return mcp.NewToolResultText("No recovery assessment submitted today."), nil
	}
	if err != nil {
		return h.queryError("get_recovery_today", err), nil
	}
	return jsonResult(a), nil
}

func (h *handlers) getAdjustedDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dayID, err := req.RequireInt("program_day_id")
	if err != nil {
		return mcp.NewToolResultError("program_day_id parameter is required"), nil
	}

	plan, err := h.ds.AdjustedDay(ctx, UserIDFromContext(ctx), int64(dayID), req.GetString("date", ""))
	if err != nil {
		return h.queryError("get_adjusted_day", err), nil
	}
	return jsonResult(plan), nil
}

func (h *handlers) getActiveProgram(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.ds.GetActiveProgram(ctx, UserIDFromContext(ctx))
	if errors.Is(err, planner.ErrNotFound) {
		return mcp.NewToolResultText("No training program yet."), nil
	}
	if err != nil {
		return h.queryError("get_active_program", err), nil
	}
	return jsonResult(p), nil
}

func (h *handlers) get1RMProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	points, err := h.ds.OneRMProgression(ctx, UserIDFromContext(ctx), int64(exerciseID),
		req.GetString("start_date", ""), req.GetString("end_date", ""))
	if err != nil {
		return h.queryError("get_1rm_progression", err), nil
	}
	return jsonResult(points), nil
}

func (h *handlers) getLastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	last, err := h.ds.LastPerformance(ctx, UserIDFromContext(ctx), int64(exerciseID))
	if err != nil {
		return h.queryError("get_last_performance", err), nil
	}
	return jsonResult(last), nil
}

func (h *handlers) getConsistencyMetrics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.ds.ConsistencyMetrics(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.queryError("get_consistency_metrics", err), nil
	}
	return jsonResult(c), nil
}

// landmarkRow is one entry of the landmark table.
type landmarkRow struct {
	MuscleGroup volume.MuscleGroup `json:"muscle_group"`
	MEV         int                `json:"mev"`
	MAV         int                `json:"mav"`
	MRV         int                `json:"mrv"`
}

func (h *handlers) landmarkTable() []landmarkRow {
	rows := make([]landmarkRow, 0, len(h.lm))
	for _, m := range volume.MuscleGroups() {
		l, ok := h.lm.For(m)
		if !ok {
			continue
		}
		rows = append(rows, landmarkRow{MuscleGroup: m, MEV: l.MEV, MAV: l.MAV, MRV: l.MRV})
	}
	return rows
}

func (h *handlers) listMuscleGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.landmarkTable()), nil
}

// queryError turns a data source failure into a tool error. Validation and
// lookup failures are shown as-is; anything else is logged.
func (h *handlers) queryError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, planner.ErrNotFound) || errors.Is(err, planner.ErrInvalidArgument) {
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return result
}
