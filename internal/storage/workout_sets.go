package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitflow/internal/models"
)

// InsertWorkoutSet logs one set and returns its ID.
func (q *Queries) InsertWorkoutSet(ctx context.Context, s models.WorkoutSet) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO sets (workout_id, exercise_id, set_number, weight_kg, reps, rir, notes, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8) RETURNING id`,
		s.WorkoutID, s.ExerciseID, s.SetNumber, s.WeightKg, s.Reps, s.RIR, s.Notes, s.LoggedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	return id, nil
}

// ListExerciseSets returns the user's sets of one exercise from workouts
// dated in [start, end), oldest first. Workouts of every status are included.
func (q *Queries) ListExerciseSets(ctx context.Context, userID, exerciseID int64, start, end time.Time) ([]models.PerformedSet, error) {
	rows, err := q.db.Query(ctx,
		`SELECT w.id, w.date, w.status, w.completed_at, s.set_number, s.weight_kg, s.reps, s.rir
		 FROM sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE w.user_id = $1 AND s.exercise_id = $2 AND w.date >= $3 AND w.date < $4
		 ORDER BY w.date, w.id, s.set_number`,
		userID, exerciseID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("querying exercise sets: %w", err)
	}
	defer rows.Close()

	loc := start.Location()
	var result []models.PerformedSet
	for rows.Next() {
		var p models.PerformedSet
		var date time.Time
		if err := rows.Scan(&p.WorkoutID, &date, &p.WorkoutStatus, &p.CompletedAt,
			&p.SetNumber, &p.WeightKg, &p.Reps, &p.RIR); err != nil {
			return nil, fmt.Errorf("scanning exercise set: %w", err)
		}
		y, m, d := date.Date()
		p.WorkoutDate = time.Date(y, m, d, 0, 0, 0, 0, loc)
		result = append(result, p)
	}
	return result, rows.Err()
}
