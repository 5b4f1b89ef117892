package planner

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// Bounds on caller-supplied program exercise fields. Phase rescaling may
// push sets past MaxSets afterwards.
const (
	MinSets = 1
	MaxSets = 10
	MinRIR  = 0
	MaxRIR  = 4
)

var repRangePattern = regexp.MustCompile(`^\d+(-\d+)?$`)

func validateSets(sets int) error {
	if sets < MinSets || sets > MaxSets {
		return invalidf("sets must be between %d and %d, got %d", MinSets, MaxSets, sets)
	}
	return nil
}

func validateRIR(rir int) error {
	if rir < MinRIR || rir > MaxRIR {
		return invalidf("rir must be between %d and %d, got %d", MinRIR, MaxRIR, rir)
	}
	return nil
}

func validateRepRange(reps string) error {
	if !repRangePattern.MatchString(reps) {
		return invalidf("reps must look like \"8\" or \"8-12\", got %q", reps)
	}
	return nil
}

// AddExerciseInput adds an exercise to a program day.
type AddExerciseInput struct {
	ProgramDayID int64  `json:"program_day_id"`
	ExerciseID   int64  `json:"exercise_id"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	RIR          int    `json:"rir"`
	OrderIndex   *int   `json:"order_index,omitempty"`
}

// AddExerciseResult is returned by AddExercise.
type AddExerciseResult struct {
	ProgramExerciseID int64   `json:"program_exercise_id"`
	VolumeWarning     *string `json:"volume_warning"`
}

// AddExercise inserts a program exercise and warns about groups the new
// weekly plan pushes above MRV. Without an order index the exercise is
// appended after the day's last one.
func (s *Service) AddExercise(ctx context.Context, userID int64, in AddExerciseInput) (*AddExerciseResult, error) {
	if err := validateSets(in.Sets); err != nil {
		return nil, err
	}
	if err := validateRepRange(in.Reps); err != nil {
		return nil, err
	}
	if err := validateRIR(in.RIR); err != nil {
		return nil, err
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		return nil, invalidf("order_index must not be negative")
	}

	var res AddExerciseResult
	var warnings []volume.Warning
	err := s.store.WithTx(ctx, func(r Repo) error {
		day, program, err := ownedDay(ctx, r, userID, in.ProgramDayID, true)
		if err != nil {
			return err
		}
		ex, err := r.GetExercise(ctx, in.ExerciseID)
		if err != nil {
			return err
		}
		rows, err := r.ListProgramExercises(ctx, program.ID)
		if err != nil {
			return err
		}

		order := 0
		for _, row := range rows {
			if row.ProgramDayID != day.ID {
				continue
			}
			if in.OrderIndex != nil && row.OrderIndex == *in.OrderIndex {
				return invalidf("order_index %d is already used on day %d", *in.OrderIndex, day.ID)
			}
			if row.OrderIndex >= order {
				order = row.OrderIndex + 1
			}
		}
		if in.OrderIndex != nil {
			order = *in.OrderIndex
		}

		id, err := r.InsertProgramExercise(ctx, models.ProgramExercise{
			ProgramDayID: day.ID,
			ExerciseID:   ex.ID,
			OrderIndex:   order,
			Sets:         in.Sets,
			RepRange:     in.Reps,
			RIR:          in.RIR,
		})
		if err != nil {
			return err
		}

		warnings = volume.Advise(volume.Impact{
			Mutation: volume.MutationAdd,
			Before:   plannedTotals(rows),
			Groups:   ex.MuscleGroups,
			Delta:    in.Sets,
		}, s.landmarks)
		res.ProgramExerciseID = id
		res.VolumeWarning = volume.FormatWarnings(volume.MutationAdd, warnings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordWarnings(warnings)
	return &res, nil
}

// UpdateExerciseInput lists the fields to change. Nil fields are kept.
type UpdateExerciseInput struct {
	Sets *int    `json:"sets,omitempty"`
	Reps *string `json:"reps,omitempty"`
	RIR  *int    `json:"rir,omitempty"`
}

// UpdateExerciseResult is returned by UpdateExercise.
type UpdateExerciseResult struct {
	Updated       bool    `json:"updated"`
	VolumeWarning *string `json:"volume_warning"`
}

// UpdateExercise patches a program exercise. An empty patch is a no-op
// reported as updated=false. Warnings are only computed when sets change.
func (s *Service) UpdateExercise(ctx context.Context, userID, id int64, in UpdateExerciseInput) (*UpdateExerciseResult, error) {
	patch := models.ProgramExercisePatch{Sets: in.Sets, RepRange: in.Reps, RIR: in.RIR}
	if in.Sets != nil {
		if err := validateSets(*in.Sets); err != nil {
			return nil, err
		}
	}
	if in.Reps != nil {
		if err := validateRepRange(*in.Reps); err != nil {
			return nil, err
		}
	}
	if in.RIR != nil {
		if err := validateRIR(*in.RIR); err != nil {
			return nil, err
		}
	}

	var res UpdateExerciseResult
	var warnings []volume.Warning
	err := s.store.WithTx(ctx, func(r Repo) error {
		pe, program, err := s.ownedProgramExercise(ctx, r, userID, id)
		if err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}
		var before volume.Totals
		if patch.Sets != nil {
			rows, err := r.ListProgramExercises(ctx, program.ID)
			if err != nil {
				return err
			}
			before = plannedTotals(rows)
		}
		if err := r.UpdateProgramExercise(ctx, id, patch); err != nil {
			return err
		}
		res.Updated = true
		if patch.Sets == nil {
			return nil
		}
		warnings = volume.Advise(volume.Impact{
			Mutation: volume.MutationUpdate,
			Before:   before,
			Groups:   pe.MuscleGroups,
			Delta:    *patch.Sets - pe.Sets,
		}, s.landmarks)
		res.VolumeWarning = volume.FormatWarnings(volume.MutationUpdate, warnings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordWarnings(warnings)
	return &res, nil
}

// DeleteExerciseResult is returned by DeleteExercise.
type DeleteExerciseResult struct {
	Deleted       bool    `json:"deleted"`
	VolumeWarning *string `json:"volume_warning"`
}

// DeleteExercise removes a program exercise and warns about groups that
// drop below MEV as a result.
func (s *Service) DeleteExercise(ctx context.Context, userID, id int64) (*DeleteExerciseResult, error) {
	var res DeleteExerciseResult
	var warnings []volume.Warning
	err := s.store.WithTx(ctx, func(r Repo) error {
		pe, program, err := s.ownedProgramExercise(ctx, r, userID, id)
		if err != nil {
			return err
		}
		rows, err := r.ListProgramExercises(ctx, program.ID)
		if err != nil {
			return err
		}
		if err := r.DeleteProgramExercise(ctx, id); err != nil {
			return err
		}
		warnings = volume.Advise(volume.Impact{
			Mutation: volume.MutationDelete,
			Before:   plannedTotals(rows),
			Groups:   pe.MuscleGroups,
			Delta:    -pe.Sets,
		}, s.landmarks)
		res.Deleted = true
		res.VolumeWarning = volume.FormatWarnings(volume.MutationDelete, warnings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordWarnings(warnings)
	return &res, nil
}

// SwapResult is returned by SwapExercise.
type SwapResult struct {
	Swapped         bool   `json:"swapped"`
	OldExerciseName string `json:"old_exercise_name"`
	NewExerciseName string `json:"new_exercise_name"`
}

// SwapExercise replaces the exercise of a program exercise, keeping its
// sets, reps, rir and position. The two exercises must share at least one
// muscle group.
func (s *Service) SwapExercise(ctx context.Context, userID, id, newExerciseID int64) (*SwapResult, error) {
	var res SwapResult
	err := s.store.WithTx(ctx, func(r Repo) error {
		pe, _, err := s.ownedProgramExercise(ctx, r, userID, id)
		if err != nil {
			return err
		}
		ex, err := r.GetExercise(ctx, newExerciseID)
		if err != nil {
			return err
		}
		if !volume.SharesAny(pe.MuscleGroups, ex.MuscleGroups) {
			return fmt.Errorf("%w: %s targets [%s] but %s targets [%s]",
				ErrIncompatibleMuscleGroups,
				pe.ExerciseName, volume.JoinGroups(pe.MuscleGroups),
				ex.Name, volume.JoinGroups(ex.MuscleGroups))
		}
		if err := r.SetProgramExerciseExercise(ctx, id, ex.ID); err != nil {
			return err
		}
		res = SwapResult{Swapped: true, OldExerciseName: pe.ExerciseName, NewExerciseName: ex.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ReorderItem moves one program exercise to a new position.
type ReorderItem struct {
	ProgramExerciseID int64 `json:"program_exercise_id"`
	NewOrderIndex     int   `json:"new_order_index"`
}

// ReorderResult is returned by ReorderExercises.
type ReorderResult struct {
	Reordered bool `json:"reordered"`
}

// ReorderExercises applies a partial reorder of a day's exercises. Unlisted
// exercises keep their index; the resulting indexes must stay unique.
func (s *Service) ReorderExercises(ctx context.Context, userID, dayID int64, items []ReorderItem) (*ReorderResult, error) {
	if len(items) == 0 {
		return nil, invalidf("at least one exercise order is required")
	}
	moved := make(map[int64]int, len(items))
	for _, it := range items {
		if it.NewOrderIndex < 0 {
			return nil, invalidf("new_order_index must not be negative")
		}
		if _, dup := moved[it.ProgramExerciseID]; dup {
			return nil, invalidf("program exercise %d listed more than once", it.ProgramExerciseID)
		}
		moved[it.ProgramExerciseID] = it.NewOrderIndex
	}

	err := s.store.WithTx(ctx, func(r Repo) error {
		if _, _, err := ownedDay(ctx, r, userID, dayID, true); err != nil {
			return err
		}
		rows, err := r.ListDayExercises(ctx, dayID)
		if err != nil {
			return err
		}

		final := make(map[int64]int, len(rows))
		for _, row := range rows {
			final[row.ID] = row.OrderIndex
		}
		for _, it := range items {
			if _, ok := final[it.ProgramExerciseID]; !ok {
				return fmt.Errorf("program exercise %d on day %d: %w", it.ProgramExerciseID, dayID, ErrNotFound)
			}
			final[it.ProgramExerciseID] = it.NewOrderIndex
		}
		used := make(map[int]int64, len(final))
		for id, idx := range final {
			if other, ok := used[idx]; ok {
				return invalidf("order_index %d would be shared by program exercises %d and %d", idx, min(id, other), max(id, other))
			}
			used[idx] = id
		}

		for _, it := range items {
			if err := r.SetProgramExerciseOrder(ctx, it.ProgramExerciseID, it.NewOrderIndex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ReorderResult{Reordered: true}, nil
}

// ownedProgramExercise loads a program exercise and locks its program.
func (s *Service) ownedProgramExercise(ctx context.Context, r Repo, userID, id int64) (*models.ProgramExerciseDetail, *models.Program, error) {
	pe, err := r.GetProgramExercise(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	_, program, err := ownedDay(ctx, r, userID, pe.ProgramDayID, true)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, fmt.Errorf("program exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return pe, program, nil
}
