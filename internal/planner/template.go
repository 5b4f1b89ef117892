package planner

import (
	"context"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/models"
)

// DefaultProgramName names programs created from the built-in template.
const DefaultProgramName = "Renaissance Periodization Push/Pull Split"

type templateExercise struct {
	name string
	sets int
	reps string
	rir  int
}

type templateDay struct {
	dayOfWeek int
	name      string
	exercises []templateExercise
}

var defaultTemplate = []templateDay{
	{1, "Push A (Chest-Focused)", []templateExercise{
		{"Barbell Back Squat", 3, "6-8", 3},
		{"Barbell Bench Press", 4, "6-8", 3},
		{"Incline Dumbbell Press", 3, "8-10", 2},
		{"Cable Flyes", 3, "12-15", 1},
		{"Lateral Raises", 4, "12-15", 1},
		{"Tricep Pushdown", 3, "15-20", 0},
	}},
	{2, "Pull A (Lat-Focused)", []templateExercise{
		{"Conventional Deadlift", 3, "5-8", 3},
		{"Pull-Ups", 4, "5-8", 3},
		{"Barbell Row", 4, "8-10", 2},
		{"Seated Cable Row", 3, "12-15", 1},
		{"Face Pulls", 3, "15-20", 0},
		{"Barbell Curl", 3, "8-12", 1},
	}},
	{4, "Push B (Shoulder-Focused)", []templateExercise{
		{"Leg Press", 3, "8-12", 3},
		{"Overhead Press", 4, "5-8", 3},
		{"Dumbbell Bench Press", 3, "8-12", 2},
		{"Cable Lateral Raises", 4, "15-20", 0},
		{"Rear Delt Flyes", 3, "15-20", 0},
		{"Close-Grip Bench Press", 3, "8-10", 2},
	}},
	{5, "Pull B (Rhomboid/Trap-Focused)", []templateExercise{
		{"Front Squat", 3, "6-8", 3},
		{"Barbell Row", 4, "6-8", 3},
		{"Lat Pulldown", 3, "10-12", 2},
		{"Barbell Shrugs", 4, "12-15", 1},
		{"Rear Delt Flyes", 3, "15-20", 0},
		{"Hammer Curl", 3, "10-15", 1},
	}},
}

// CreatedProgram is returned by CreateDefaultProgram.
type CreatedProgram struct {
	ProgramID int64           `json:"program_id"`
	Name      string          `json:"name"`
	Phase     mesocycle.Phase `json:"mesocycle_phase"`
	Week      int             `json:"mesocycle_week"`
	Days      int             `json:"days"`
	Exercises int             `json:"exercises"`
}

// CreateDefaultProgram creates the built-in four-day program for the caller,
// starting at week 1 of the MEV phase. The program becomes the caller's
// active program.
func (s *Service) CreateDefaultProgram(ctx context.Context, userID int64) (*CreatedProgram, error) {
	res := CreatedProgram{Name: DefaultProgramName, Phase: mesocycle.MEV, Week: 1}
	err := s.store.WithTx(ctx, func(r Repo) error {
		exercises := map[string]int64{}
		for _, d := range defaultTemplate {
			for _, te := range d.exercises {
				if _, ok := exercises[te.name]; ok {
					continue
				}
				ex, err := r.GetExerciseByName(ctx, te.name)
				if err != nil {
					return err
				}
				exercises[te.name] = ex.ID
			}
		}

		programID, err := r.InsertProgram(ctx, models.Program{
			UserID:         userID,
			Name:           DefaultProgramName,
			MesocycleWeek:  1,
			MesocyclePhase: mesocycle.MEV,
		})
		if err != nil {
			return err
		}
		res.ProgramID = programID

		for _, d := range defaultTemplate {
			dayID, err := r.InsertProgramDay(ctx, models.ProgramDay{ProgramID: programID, DayOfWeek: d.dayOfWeek, DayName: d.name})
			if err != nil {
				return err
			}
			res.Days++
			for i, te := range d.exercises {
				if _, err := r.InsertProgramExercise(ctx, models.ProgramExercise{
					ProgramDayID: dayID,
					ExerciseID:   exercises[te.name],
					OrderIndex:   i,
					Sets:         te.sets,
					RepRange:     te.reps,
					RIR:          te.rir,
				}); err != nil {
					return err
				}
				res.Exercises++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("program created", "user_id", userID, "program_id", res.ProgramID, "exercises", res.Exercises)
	return &res, nil
}
