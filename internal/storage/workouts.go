package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// InsertWorkout inserts a workout row and returns its ID.
func (q *Queries) InsertWorkout(ctx context.Context, w models.Workout) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO workouts (user_id, program_day_id, date, status, started_at, completed_at, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		w.UserID, w.ProgramDayID, w.Date.Format(time.DateOnly), w.Status, w.StartedAt, w.CompletedAt, sourceOrManual(w.Source)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	return id, nil
}

const workoutColumns = `id, user_id, program_day_id, date, status, started_at, completed_at, source`

func scanWorkout(row interface{ Scan(...any) error }) (*models.Workout, error) {
	var w models.Workout
	if err := row.Scan(&w.ID, &w.UserID, &w.ProgramDayID, &w.Date, &w.Status, &w.StartedAt, &w.CompletedAt, &w.Source); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWorkout returns a workout by ID.
func (q *Queries) GetWorkout(ctx context.Context, workoutID int64) (*models.Workout, error) {
	w, err := scanWorkout(q.db.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, workoutID))
	if err != nil {
		return nil, notFound(err, "workout", workoutID)
	}
	return w, nil
}

// ListWorkouts returns every workout of the user, newest first.
func (q *Queries) ListWorkouts(ctx context.Context, userID int64) ([]models.Workout, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// DeleteImportedWorkouts removes the user's workouts from source on date.
// Their sets go with them.
func (q *Queries) DeleteImportedWorkouts(ctx context.Context, userID int64, source string, date time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM workouts WHERE user_id = $1 AND source = $2 AND date = $3`,
		userID, source, date.Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("deleting %s workouts: %w", source, err)
	}
	return tag.RowsAffected(), nil
}

func sourceOrManual(s string) string {
	if s == "" {
		return models.WorkoutSourceManual
	}
	return s
}

// CompleteWorkout marks a workout completed at the given time.
func (q *Queries) CompleteWorkout(ctx context.Context, workoutID int64, at time.Time) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE workouts SET status = $2, completed_at = $3 WHERE id = $1`,
		workoutID, models.WorkoutCompleted, at)
	if err != nil {
		return fmt.Errorf("completing workout: %w", err)
	}
	return mustAffect(tag, "workout", workoutID)
}

// ListCompletedSets returns one entry per logged set of the user's
// completed workouts dated in [start, end).
func (q *Queries) ListCompletedSets(ctx context.Context, userID int64, start, end time.Time) ([]volume.CompletedSet, error) {
	rows, err := q.db.Query(ctx,
		`SELECT w.date, e.muscle_groups
		 FROM sets s
		 JOIN workouts w ON w.id = s.workout_id
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE w.user_id = $1 AND w.status = $2 AND w.date >= $3 AND w.date < $4
		 ORDER BY w.date, s.id`,
		userID, models.WorkoutCompleted, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("querying completed sets: %w", err)
	}
	defer rows.Close()

	loc := start.Location()
	var result []volume.CompletedSet
	for rows.Next() {
		var date time.Time
		var groups []string
		if err := rows.Scan(&date, &groups); err != nil {
			return nil, fmt.Errorf("scanning completed set: %w", err)
		}
		mg, err := volume.ParseMuscleGroups(groups)
		if err != nil {
			return nil, fmt.Errorf("completed set: %w", err)
		}
		// DATE columns scan as UTC midnight; re-anchor to the caller's zone.
		y, m, d := date.Date()
		result = append(result, volume.CompletedSet{
			WorkoutDate:  time.Date(y, m, d, 0, 0, 0, 0, loc),
			MuscleGroups: mg,
		})
	}
	return result, rows.Err()
}
