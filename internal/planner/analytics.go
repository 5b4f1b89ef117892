package planner

import (
	"context"
	"errors"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// Trend window bounds, in ISO weeks.
const (
	DefaultTrendWeeks = 8
	MaxTrendWeeks     = 52
)

// GetVolumeAnalysis classifies a program's planned weekly volume per muscle
// group against the landmarks.
func (s *Service) GetVolumeAnalysis(ctx context.Context, userID, programID int64) (*volume.Analysis, error) {
	program, err := ownedProgram(ctx, s.store, userID, programID, false)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListProgramExercises(ctx, programID)
	if err != nil {
		return nil, err
	}
	groups, warnings := volume.Analyze(plannedTotals(rows), s.landmarks)
	return &volume.Analysis{
		ProgramID:      program.ID,
		MesocyclePhase: string(program.MesocyclePhase),
		MesocycleWeek:  program.MesocycleWeek,
		MuscleGroups:   groups,
		Warnings:       warnings,
	}, nil
}

// CurrentWeekVolume compares this ISO week's completed sets against the
// plan of the caller's active program. Callers without a program get
// completed volume only.
func (s *Service) CurrentWeekVolume(ctx context.Context, userID int64) (*volume.WeekReport, error) {
	week := volume.ISOWeek(s.now().In(s.loc))

	planned := volume.Totals{}
	program, err := s.store.GetActiveProgram(ctx, userID)
	switch {
	case err == nil:
		rows, err := s.store.ListProgramExercises(ctx, program.ID)
		if err != nil {
			return nil, err
		}
		planned = plannedTotals(rows)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	sets, err := s.store.ListCompletedSets(ctx, userID, week.Start, week.End)
	if err != nil {
		return nil, err
	}
	report := volume.Progress(week, volume.AggregateCompleted(sets, week), planned, s.landmarks)
	return &report, nil
}

// VolumeTrends buckets completed sets of the last weeks ISO weeks, the
// current one included. weeks=0 selects the default window.
func (s *Service) VolumeTrends(ctx context.Context, userID int64, weeks int, muscleGroup string) ([]volume.WeekVolume, error) {
	if weeks == 0 {
		weeks = DefaultTrendWeeks
	}
	if weeks < 1 || weeks > MaxTrendWeeks {
		return nil, invalidf("weeks must be between 1 and %d, got %d", MaxTrendWeeks, weeks)
	}
	var filter volume.MuscleGroup
	if muscleGroup != "" {
		m, err := volume.ParseMuscleGroup(muscleGroup)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		filter = m
	}

	current := volume.ISOWeek(s.now().In(s.loc))
	start := current.Start.AddDate(0, 0, -7*(weeks-1))
	sets, err := s.store.ListCompletedSets(ctx, userID, start, current.End)
	if err != nil {
		return nil, err
	}
	return volume.Trends(sets, filter, s.landmarks), nil
}

// ListExercises returns the exercise catalog.
func (s *Service) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return s.store.ListExercises(ctx)
}
