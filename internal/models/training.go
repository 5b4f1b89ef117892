package models

import (
	"time"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/recovery"
	"github.com/claude/fitflow/internal/volume"
)

// Program is a row of the programs table.
type Program struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	MesocycleWeek  int             `json:"mesocycle_week"`
	MesocyclePhase mesocycle.Phase `json:"mesocycle_phase"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ProgramDay is a row of the program_days table.
type ProgramDay struct {
	ID        int64  `json:"id"`
	ProgramID int64  `json:"program_id"`
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
}

// Exercise is a catalog exercise with its muscle-group tags.
type Exercise struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	MuscleGroups []volume.MuscleGroup `json:"muscle_groups"`
	Equipment    string               `json:"equipment"`
}

// ProgramExercise is a row of the program_exercises table.
type ProgramExercise struct {
	ID           int64  `json:"id"`
	ProgramDayID int64  `json:"program_day_id"`
	ExerciseID   int64  `json:"exercise_id"`
	OrderIndex   int    `json:"order_index"`
	Sets         int    `json:"sets"`
	RepRange     string `json:"reps"`
	RIR          int    `json:"rir"`
}

// ProgramExerciseDetail is a program exercise joined with its exercise.
type ProgramExerciseDetail struct {
	ProgramExercise
	ExerciseName string               `json:"exercise_name"`
	MuscleGroups []volume.MuscleGroup `json:"muscle_groups"`
}

// ProgramExercisePatch lists the fields an update may change. Nil fields are left alone.
type ProgramExercisePatch struct {
	Sets     *int
	RepRange *string
	RIR      *int
}

// Empty reports whether the patch changes nothing.
func (p ProgramExercisePatch) Empty() bool {
	return p.Sets == nil && p.RepRange == nil && p.RIR == nil
}

// Workout status values.
const (
	WorkoutNotStarted = "not_started"
	WorkoutInProgress = "in_progress"
	WorkoutCompleted  = "completed"
)

// WorkoutSourceManual marks workouts logged through the API.
const WorkoutSourceManual = "manual"

// Workout is a row of the workouts table.
type Workout struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	ProgramDayID *int64     `json:"program_day_id,omitempty"`
	Date         time.Time  `json:"date"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Source       string     `json:"source"`
}

// WorkoutSet is a logged set.
type WorkoutSet struct {
	ID         int64     `json:"id"`
	WorkoutID  int64     `json:"workout_id"`
	ExerciseID int64     `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	RIR        int       `json:"rir"`
	Notes      string    `json:"notes,omitempty"`
	LoggedAt   time.Time `json:"logged_at"`
}

// PerformedSet is a logged set together with its workout's date and status.
type PerformedSet struct {
	WorkoutID     int64      `json:"workout_id"`
	WorkoutDate   time.Time  `json:"workout_date"`
	WorkoutStatus string     `json:"workout_status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	SetNumber     int        `json:"set_number"`
	WeightKg      float64    `json:"weight_kg"`
	Reps          int        `json:"reps"`
	RIR           int        `json:"rir"`
}

// RecoveryAssessment is a daily check-in row.
type RecoveryAssessment struct {
	ID               int64              `json:"id"`
	UserID           int64              `json:"user_id"`
	Date             time.Time          `json:"date"`
	SleepQuality     int                `json:"sleep_quality"`
	MuscleSoreness   int                `json:"muscle_soreness"`
	MentalMotivation int                `json:"mental_motivation"`
	TotalScore       int                `json:"total_score"`
	VolumeAdjustment recovery.Directive `json:"volume_adjustment"`
	CreatedAt        time.Time          `json:"created_at"`
}
