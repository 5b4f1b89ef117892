package planner

import (
	"context"

	"github.com/claude/fitflow/internal/models"
)

// ProgramView is a program with its days and their exercises.
type ProgramView struct {
	models.Program
	Days []DayView `json:"program_days"`
}

// DayView is one program day with its exercises in order.
type DayView struct {
	models.ProgramDay
	Exercises []models.ProgramExerciseDetail `json:"exercises"`
}

// GetActiveProgram returns the caller's newest program with its full
// structure.
func (s *Service) GetActiveProgram(ctx context.Context, userID int64) (*ProgramView, error) {
	program, err := s.store.GetActiveProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	days, err := s.store.ListProgramDays(ctx, program.ID)
	if err != nil {
		return nil, err
	}
	view := &ProgramView{Program: *program, Days: make([]DayView, 0, len(days))}
	for _, d := range days {
		rows, err := s.store.ListDayExercises(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []models.ProgramExerciseDetail{}
		}
		view.Days = append(view.Days, DayView{ProgramDay: d, Exercises: rows})
	}
	return view, nil
}
