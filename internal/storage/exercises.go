package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// GetExercise returns a catalog exercise with its muscle groups.
func (q *Queries) GetExercise(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	var e models.Exercise
	var groups []string
	err := q.db.QueryRow(ctx,
		`SELECT id, name, muscle_groups, equipment FROM exercises WHERE id = $1`, exerciseID).
		Scan(&e.ID, &e.Name, &groups, &e.Equipment)
	if err != nil {
		return nil, notFound(err, "exercise", exerciseID)
	}
	e.MuscleGroups, err = volume.ParseMuscleGroups(groups)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", exerciseID, err)
	}
	return &e, nil
}

// GetExerciseByName looks up a catalog exercise by name, ignoring case.
func (q *Queries) GetExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	var e models.Exercise
	var groups []string
	err := q.db.QueryRow(ctx,
		`SELECT id, name, muscle_groups, equipment FROM exercises WHERE lower(name) = lower($1)`, name).
		Scan(&e.ID, &e.Name, &groups, &e.Equipment)
	if err != nil {
		return nil, notFound(err, "exercise", name)
	}
	e.MuscleGroups, err = volume.ParseMuscleGroups(groups)
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", name, err)
	}
	return &e, nil
}

// ListExercises returns the exercise catalog ordered by name.
func (q *Queries) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, muscle_groups, equipment FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		var groups []string
		if err := rows.Scan(&e.ID, &e.Name, &groups, &e.Equipment); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if e.MuscleGroups, err = volume.ParseMuscleGroups(groups); err != nil {
			return nil, fmt.Errorf("exercise %d: %w", e.ID, err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
