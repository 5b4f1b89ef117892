package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/recovery"
)

// GetRecoveryAssessment returns the user's assessment for a date.
func (q *Queries) GetRecoveryAssessment(ctx context.Context, userID int64, date time.Time) (*models.RecoveryAssessment, error) {
	var a models.RecoveryAssessment
	var adj string
	err := q.db.QueryRow(ctx,
		`SELECT id, user_id, date, sleep_quality, muscle_soreness, mental_motivation,
		        total_score, volume_adjustment, created_at
		 FROM recovery_assessments WHERE user_id = $1 AND date = $2`,
		userID, date.Format(time.DateOnly)).
		Scan(&a.ID, &a.UserID, &a.Date, &a.SleepQuality, &a.MuscleSoreness, &a.MentalMotivation,
			&a.TotalScore, &adj, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err, "recovery assessment for", date.Format(time.DateOnly))
	}
	a.VolumeAdjustment = recovery.Directive(adj)
	return &a, nil
}

// InsertRecoveryAssessment stores a check-in. A second row for the same
// user and date fails with planner.ErrAlreadySubmitted.
func (q *Queries) InsertRecoveryAssessment(ctx context.Context, a models.RecoveryAssessment) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO recovery_assessments
		 (user_id, date, sleep_quality, muscle_soreness, mental_motivation, total_score, volume_adjustment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		a.UserID, a.Date.Format(time.DateOnly), a.SleepQuality, a.MuscleSoreness, a.MentalMotivation,
		a.TotalScore, string(a.VolumeAdjustment)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting recovery assessment: %w", mapError(err))
	}
	return id, nil
}
