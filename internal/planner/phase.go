package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/fitflow/internal/mesocycle"
)

// AdvanceInput selects automatic or manual advancement.
type AdvanceInput struct {
	Manual      bool   `json:"manual"`
	TargetPhase string `json:"target_phase,omitempty"`
}

// AdvanceResult is returned by AdvancePhase.
type AdvanceResult struct {
	PreviousPhase    mesocycle.Phase `json:"previous_phase"`
	NewPhase         mesocycle.Phase `json:"new_phase"`
	MesocycleWeek    int             `json:"mesocycle_week"`
	VolumeMultiplier float64         `json:"volume_multiplier"`
	ExercisesUpdated int             `json:"exercises_updated"`
}

// AdvancePhase moves a program to its next (or a chosen) phase and rescales
// every program exercise's sets in the same transaction as the phase update.
func (s *Service) AdvancePhase(ctx context.Context, userID, programID int64, in AdvanceInput) (*AdvanceResult, error) {
	target, err := mesocycle.Request{Manual: in.Manual, TargetPhase: in.TargetPhase}.Target()
	if err != nil {
		if errors.Is(err, mesocycle.ErrInvalidPhase) || errors.Is(err, mesocycle.ErrNoTarget) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return nil, err
	}

	var res AdvanceResult
	err = s.store.WithTx(ctx, func(r Repo) error {
		program, err := ownedProgram(ctx, r, userID, programID, true)
		if err != nil {
			return err
		}
		next, tr, err := mesocycle.Advance(mesocycle.State{Phase: program.MesocyclePhase, Week: program.MesocycleWeek}, target)
		if err != nil {
			return fmt.Errorf("advancing program %d: %w", programID, err)
		}

		updated := 0
		if tr.Multiplier != mesocycle.Unchanged {
			rows, err := r.ListProgramExercises(ctx, programID)
			if err != nil {
				return err
			}
			counts := make([]mesocycle.SetCount, len(rows))
			for i, row := range rows {
				counts[i] = mesocycle.SetCount{ID: row.ID, Sets: row.Sets}
			}
			for _, c := range mesocycle.RescaleAll(counts, tr.Multiplier) {
				if err := r.SetProgramExerciseSets(ctx, c.ID, c.Sets); err != nil {
					return err
				}
				updated++
			}
		}
		if err := r.UpdateProgramPhase(ctx, programID, next.Phase, next.Week); err != nil {
			return err
		}

		res = AdvanceResult{
			PreviousPhase:    tr.From,
			NewPhase:         tr.To,
			MesocycleWeek:    next.Week,
			VolumeMultiplier: tr.Multiplier.Float(),
			ExercisesUpdated: updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.PhaseAdvanced(res.NewPhase)
	s.logger.Info("mesocycle phase advanced",
		"program_id", programID,
		"from", res.PreviousPhase,
		"to", res.NewPhase,
		"week", res.MesocycleWeek,
		"multiplier", res.VolumeMultiplier,
		"exercises_updated", res.ExercisesUpdated,
	)
	return &res, nil
}
