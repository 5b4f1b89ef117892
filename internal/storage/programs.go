package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/models"
)

const programColumns = `id, user_id, name, mesocycle_week, mesocycle_phase, created_at`

func scanProgram(row interface{ Scan(...any) error }) (*models.Program, error) {
	var p models.Program
	var phase string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.MesocycleWeek, &phase, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.MesocyclePhase = mesocycle.Phase(phase)
	return &p, nil
}

// GetProgram returns a program by ID.
func (q *Queries) GetProgram(ctx context.Context, programID int64) (*models.Program, error) {
	p, err := scanProgram(q.db.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs WHERE id = $1`, programID))
	if err != nil {
		return nil, notFound(err, "program", programID)
	}
	return p, nil
}

// LockProgram returns a program and holds FOR UPDATE on its row until the
// transaction ends. Outside a transaction the lock is released immediately.
func (q *Queries) LockProgram(ctx context.Context, programID int64) (*models.Program, error) {
	p, err := scanProgram(q.db.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs WHERE id = $1 FOR UPDATE`, programID))
	if err != nil {
		return nil, notFound(err, "program", programID)
	}
	return p, nil
}

// GetActiveProgram returns the user's most recently created program.
func (q *Queries) GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error) {
	p, err := scanProgram(q.db.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID))
	if err != nil {
		return nil, notFound(err, "active program for user", userID)
	}
	return p, nil
}

// UpdateProgramPhase stores a program's new mesocycle position.
func (q *Queries) UpdateProgramPhase(ctx context.Context, programID int64, phase mesocycle.Phase, week int) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE programs SET mesocycle_phase = $2, mesocycle_week = $3, updated_at = NOW() WHERE id = $1`,
		programID, string(phase), week)
	if err != nil {
		return fmt.Errorf("updating program phase: %w", err)
	}
	return mustAffect(tag, "program", programID)
}

// GetProgramDay returns a program day by ID.
func (q *Queries) GetProgramDay(ctx context.Context, dayID int64) (*models.ProgramDay, error) {
	var d models.ProgramDay
	err := q.db.QueryRow(ctx,
		`SELECT id, program_id, day_of_week, day_name FROM program_days WHERE id = $1`, dayID).
		Scan(&d.ID, &d.ProgramID, &d.DayOfWeek, &d.DayName)
	if err != nil {
		return nil, notFound(err, "program day", dayID)
	}
	return &d, nil
}

// ListProgramDays returns a program's days ordered by weekday.
func (q *Queries) ListProgramDays(ctx context.Context, programID int64) ([]models.ProgramDay, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, program_id, day_of_week, day_name FROM program_days
		 WHERE program_id = $1 ORDER BY day_of_week, id`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying program days: %w", err)
	}
	defer rows.Close()

	var result []models.ProgramDay
	for rows.Next() {
		var d models.ProgramDay
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.DayOfWeek, &d.DayName); err != nil {
			return nil, fmt.Errorf("scanning program day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// InsertProgram creates a program and returns its ID.
func (q *Queries) InsertProgram(ctx context.Context, p models.Program) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO programs (user_id, name, mesocycle_week, mesocycle_phase)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.UserID, p.Name, p.MesocycleWeek, string(p.MesocyclePhase)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting program: %w", err)
	}
	return id, nil
}

// InsertProgramDay adds a training day to a program.
func (q *Queries) InsertProgramDay(ctx context.Context, d models.ProgramDay) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO program_days (program_id, day_of_week, day_name) VALUES ($1, $2, $3) RETURNING id`,
		d.ProgramID, d.DayOfWeek, d.DayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting program day: %w", err)
	}
	return id, nil
}
