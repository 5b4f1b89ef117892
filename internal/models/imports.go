package models

import "time"

// ImportedSession is one workout read from an external training log.
type ImportedSession struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Exercises []ImportedExercise
}

// ImportedExercise is one exercise block of an imported session.
type ImportedExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []ImportedSet
}

// ImportedSet is one performed set. Warmups are kept so callers can count
// what they drop.
type ImportedSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// ImportStats is the outcome of importing a batch of sessions.
type ImportStats struct {
	SessionsReceived int      `json:"sessions_received"`
	WorkoutsImported int      `json:"workouts_imported"`
	SetsImported     int      `json:"sets_imported"`
	SetsSkipped      int      `json:"sets_skipped"`
	UnknownExercises []string `json:"unknown_exercises"`
}

// Import log status values.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog is a row of the import_logs table.
type ImportLog struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	ImportStats
	DurationMs   *int    `json:"duration_ms"`
	ErrorMessage *string `json:"error_message"`
}
