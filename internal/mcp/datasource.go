package mcp

import (
	"context"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

// DataSource abstracts the read side of the planner for MCP tools. Both
// *planner.Service (in-process) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	GetVolumeAnalysis(ctx context.Context, userID, programID int64) (*volume.Analysis, error)
	CurrentWeekVolume(ctx context.Context, userID int64) (*volume.WeekReport, error)
	VolumeTrends(ctx context.Context, userID int64, weeks int, muscleGroup string) ([]volume.WeekVolume, error)
	TodayRecoveryAssessment(ctx context.Context, userID int64) (*models.RecoveryAssessment, error)
	AdjustedDay(ctx context.Context, userID, dayID int64, date string) (*planner.AdjustedDayPlan, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetActiveProgram(ctx context.Context, userID int64) (*planner.ProgramView, error)
	OneRMProgression(ctx context.Context, userID, exerciseID int64, startDate, endDate string) ([]planner.OneRMPoint, error)
	LastPerformance(ctx context.Context, userID, exerciseID int64) (*planner.LastPerformance, error)
	ConsistencyMetrics(ctx context.Context, userID int64) (*planner.Consistency, error)
}

// Compile-time check: *planner.Service satisfies DataSource.
var _ DataSource = (*planner.Service)(nil)
