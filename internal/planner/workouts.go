package planner

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/claude/fitflow/internal/models"
)

// Bounds on logged sets.
const (
	MaxWeightKg   = 500
	MinReps       = 1
	MaxReps       = 50
	MaxNotesChars = 500
)

// CreateWorkoutInput starts a workout. Date is YYYY-MM-DD; empty means today.
type CreateWorkoutInput struct {
	ProgramDayID *int64 `json:"program_day_id,omitempty"`
	Date         string `json:"date,omitempty"`
}

// CreateWorkout opens an in-progress workout, optionally tied to a program day.
func (s *Service) CreateWorkout(ctx context.Context, userID int64, in CreateWorkoutInput) (*models.Workout, error) {
	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.ProgramDayID != nil {
		if _, _, err := ownedDay(ctx, s.store, userID, *in.ProgramDayID, false); err != nil {
			return nil, err
		}
	}
	started := s.now()
	w := models.Workout{
		UserID:       userID,
		ProgramDayID: in.ProgramDayID,
		Date:         date,
		Status:       models.WorkoutInProgress,
		StartedAt:    &started,
		Source:       models.WorkoutSourceManual,
	}
	id, err := s.store.InsertWorkout(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id
	return &w, nil
}

// LogSetInput is one performed set.
type LogSetInput struct {
	ExerciseID int64   `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	WeightKg   float64 `json:"weight_kg"`
	Reps       int     `json:"reps"`
	RIR        int     `json:"rir"`
	Notes      string  `json:"notes,omitempty"`
}

func (in LogSetInput) validate() error {
	switch {
	case in.SetNumber < 1:
		return invalidf("set_number must be at least 1")
	case in.WeightKg < 0 || in.WeightKg > MaxWeightKg:
		return invalidf("weight_kg must be between 0 and %d", MaxWeightKg)
	case in.Reps < MinReps || in.Reps > MaxReps:
		return invalidf("reps must be between %d and %d", MinReps, MaxReps)
	case utf8.RuneCountInString(in.Notes) > MaxNotesChars:
		return invalidf("notes must be at most %d characters", MaxNotesChars)
	}
	return validateRIR(in.RIR)
}

// LogSet records a set against one of the caller's workouts.
func (s *Service) LogSet(ctx context.Context, userID, workoutID int64, in LogSetInput) (*models.WorkoutSet, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedWorkout(ctx, userID, workoutID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetExercise(ctx, in.ExerciseID); err != nil {
		return nil, err
	}
	set := models.WorkoutSet{
		WorkoutID:  workoutID,
		ExerciseID: in.ExerciseID,
		SetNumber:  in.SetNumber,
		WeightKg:   in.WeightKg,
		Reps:       in.Reps,
		RIR:        in.RIR,
		Notes:      in.Notes,
		LoggedAt:   s.now(),
	}
	id, err := s.store.InsertWorkoutSet(ctx, set)
	if err != nil {
		return nil, err
	}
	set.ID = id
	return &set, nil
}

// CompleteWorkout marks a workout completed so its sets count toward
// completed volume. Completing twice keeps the first completion time.
func (s *Service) CompleteWorkout(ctx context.Context, userID, workoutID int64) (*models.Workout, error) {
	w, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if w.Status == models.WorkoutCompleted {
		return w, nil
	}
	at := s.now()
	if err := s.store.CompleteWorkout(ctx, workoutID, at); err != nil {
		return nil, err
	}
	w.Status = models.WorkoutCompleted
	w.CompletedAt = &at
	return w, nil
}

func (s *Service) ownedWorkout(ctx context.Context, userID, workoutID int64) (*models.Workout, error) {
	w, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("workout %d: %w", workoutID, ErrNotFound)
	}
	return w, nil
}
