package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

const detailSelect = `
	SELECT pe.id, pe.program_day_id, pe.exercise_id, pe.order_index, pe.sets, pe.reps, pe.rir,
	       e.name, e.muscle_groups
	FROM program_exercises pe
	JOIN exercises e ON e.id = pe.exercise_id`

func scanDetail(row interface{ Scan(...any) error }) (*models.ProgramExerciseDetail, error) {
	var d models.ProgramExerciseDetail
	var groups []string
	if err := row.Scan(&d.ID, &d.ProgramDayID, &d.ExerciseID, &d.OrderIndex, &d.Sets, &d.RepRange, &d.RIR,
		&d.ExerciseName, &groups); err != nil {
		return nil, err
	}
	mg, err := volume.ParseMuscleGroups(groups)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", d.ExerciseID, err)
	}
	d.MuscleGroups = mg
	return &d, nil
}

func collectDetails(rows pgx.Rows) ([]models.ProgramExerciseDetail, error) {
	defer rows.Close()
	var result []models.ProgramExerciseDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning program exercise: %w", err)
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

// GetProgramExercise returns one program exercise joined with its exercise.
func (q *Queries) GetProgramExercise(ctx context.Context, id int64) (*models.ProgramExerciseDetail, error) {
	d, err := scanDetail(q.db.QueryRow(ctx, detailSelect+` WHERE pe.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "program exercise", id)
	}
	return d, nil
}

// ListProgramExercises returns every exercise of every day of a program.
func (q *Queries) ListProgramExercises(ctx context.Context, programID int64) ([]models.ProgramExerciseDetail, error) {
	rows, err := q.db.Query(ctx, detailSelect+`
		JOIN program_days pd ON pd.id = pe.program_day_id
		WHERE pd.program_id = $1
		ORDER BY pd.day_of_week, pe.program_day_id, pe.order_index`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying program exercises: %w", err)
	}
	return collectDetails(rows)
}

// ListDayExercises returns a day's exercises in order.
func (q *Queries) ListDayExercises(ctx context.Context, dayID int64) ([]models.ProgramExerciseDetail, error) {
	rows, err := q.db.Query(ctx, detailSelect+` WHERE pe.program_day_id = $1 ORDER BY pe.order_index`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying day exercises: %w", err)
	}
	return collectDetails(rows)
}

// InsertProgramExercise adds an exercise to a program day.
func (q *Queries) InsertProgramExercise(ctx context.Context, pe models.ProgramExercise) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO program_exercises (program_day_id, exercise_id, order_index, sets, reps, rir)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		pe.ProgramDayID, pe.ExerciseID, pe.OrderIndex, pe.Sets, pe.RepRange, pe.RIR).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting program exercise: %w", mapError(err))
	}
	return id, nil
}

// UpdateProgramExercise applies the non-nil fields of patch.
func (q *Queries) UpdateProgramExercise(ctx context.Context, id int64, patch models.ProgramExercisePatch) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE program_exercises
		 SET sets = COALESCE($2, sets), reps = COALESCE($3, reps), rir = COALESCE($4, rir)
		 WHERE id = $1`,
		id, patch.Sets, patch.RepRange, patch.RIR)
	if err != nil {
		return fmt.Errorf("updating program exercise: %w", err)
	}
	return mustAffect(tag, "program exercise", id)
}

// SetProgramExerciseSets overwrites the set count.
func (q *Queries) SetProgramExerciseSets(ctx context.Context, id int64, sets int) error {
	tag, err := q.db.Exec(ctx, `UPDATE program_exercises SET sets = $2 WHERE id = $1`, id, sets)
	if err != nil {
		return fmt.Errorf("rescaling program exercise: %w", err)
	}
	return mustAffect(tag, "program exercise", id)
}

// SetProgramExerciseExercise points a program exercise at another catalog exercise.
func (q *Queries) SetProgramExerciseExercise(ctx context.Context, id, exerciseID int64) error {
	tag, err := q.db.Exec(ctx, `UPDATE program_exercises SET exercise_id = $2 WHERE id = $1`, id, exerciseID)
	if err != nil {
		return fmt.Errorf("swapping program exercise: %w", err)
	}
	return mustAffect(tag, "program exercise", id)
}

// SetProgramExerciseOrder moves a program exercise. Uniqueness per day is
// checked when the transaction commits.
func (q *Queries) SetProgramExerciseOrder(ctx context.Context, id int64, orderIndex int) error {
	tag, err := q.db.Exec(ctx, `UPDATE program_exercises SET order_index = $2 WHERE id = $1`, id, orderIndex)
	if err != nil {
		return fmt.Errorf("reordering program exercise: %w", mapError(err))
	}
	return mustAffect(tag, "program exercise", id)
}

// DeleteProgramExercise removes a program exercise.
func (q *Queries) DeleteProgramExercise(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM program_exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting program exercise: %w", err)
	}
	return mustAffect(tag, "program exercise", id)
}
