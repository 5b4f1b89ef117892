package planner

import (
	"context"
	"time"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// Repo is the row-level contract the planner needs. Lookups of missing rows
// return an error wrapping ErrNotFound.
type Repo interface {
	GetProgram(ctx context.Context, programID int64) (*models.Program, error)
	// LockProgram reads the program and holds a row lock until the
	// surrounding transaction ends.
	LockProgram(ctx context.Context, programID int64) (*models.Program, error)
	GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error)
	UpdateProgramPhase(ctx context.Context, programID int64, phase mesocycle.Phase, week int) error
	InsertProgram(ctx context.Context, p models.Program) (int64, error)
	InsertProgramDay(ctx context.Context, d models.ProgramDay) (int64, error)
	// ListProgramDays returns a program's days ordered by weekday.
	ListProgramDays(ctx context.Context, programID int64) ([]models.ProgramDay, error)

	GetProgramDay(ctx context.Context, dayID int64) (*models.ProgramDay, error)
	GetExercise(ctx context.Context, exerciseID int64) (*models.Exercise, error)
	GetExerciseByName(ctx context.Context, name string) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)

	GetProgramExercise(ctx context.Context, id int64) (*models.ProgramExerciseDetail, error)
	ListProgramExercises(ctx context.Context, programID int64) ([]models.ProgramExerciseDetail, error)
	ListDayExercises(ctx context.Context, dayID int64) ([]models.ProgramExerciseDetail, error)
	InsertProgramExercise(ctx context.Context, pe models.ProgramExercise) (int64, error)
	UpdateProgramExercise(ctx context.Context, id int64, patch models.ProgramExercisePatch) error
	SetProgramExerciseSets(ctx context.Context, id int64, sets int) error
	SetProgramExerciseExercise(ctx context.Context, id, exerciseID int64) error
	SetProgramExerciseOrder(ctx context.Context, id int64, orderIndex int) error
	DeleteProgramExercise(ctx context.Context, id int64) error

	GetRecoveryAssessment(ctx context.Context, userID int64, date time.Time) (*models.RecoveryAssessment, error)
	// InsertRecoveryAssessment returns an error wrapping ErrAlreadySubmitted
	// when the (user, date) pair already exists.
	InsertRecoveryAssessment(ctx context.Context, a models.RecoveryAssessment) (int64, error)

	InsertWorkout(ctx context.Context, w models.Workout) (int64, error)
	GetWorkout(ctx context.Context, workoutID int64) (*models.Workout, error)
	// ListWorkouts returns every workout of the user, newest first.
	ListWorkouts(ctx context.Context, userID int64) ([]models.Workout, error)
	CompleteWorkout(ctx context.Context, workoutID int64, at time.Time) error
	InsertWorkoutSet(ctx context.Context, s models.WorkoutSet) (int64, error)
	DeleteImportedWorkouts(ctx context.Context, userID int64, source string, date time.Time) (int64, error)
	// ListExerciseSets returns one exercise's sets from the user's workouts
	// dated in [start, end), oldest first, whatever the workout status.
	ListExerciseSets(ctx context.Context, userID, exerciseID int64, start, end time.Time) ([]models.PerformedSet, error)
	// ListCompletedSets returns sets of completed workouts dated in [start, end).
	ListCompletedSets(ctx context.Context, userID int64, start, end time.Time) ([]volume.CompletedSet, error)
}

// Store is a Repo that can run a function inside one transaction. If fn
// returns an error nothing it wrote is kept.
type Store interface {
	Repo
	WithTx(ctx context.Context, fn func(Repo) error) error
}
