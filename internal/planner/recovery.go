package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/recovery"
)

// RecoveryInput is one daily check-in. Date is YYYY-MM-DD; empty means today.
type RecoveryInput struct {
	Date             string `json:"date,omitempty"`
	SleepQuality     int    `json:"sleep_quality"`
	MuscleSoreness   int    `json:"muscle_soreness"`
	MentalMotivation int    `json:"mental_motivation"`
}

// RecoveryResult is returned by SubmitRecoveryAssessment.
type RecoveryResult struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	recovery.Evaluation
}

// SubmitRecoveryAssessment scores a check-in and stores it. Only one
// assessment per user and date is accepted.
func (s *Service) SubmitRecoveryAssessment(ctx context.Context, userID int64, in RecoveryInput) (*RecoveryResult, error) {
	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	eval, err := recovery.Evaluate(recovery.Answers{
		SleepQuality:     in.SleepQuality,
		MuscleSoreness:   in.MuscleSoreness,
		MentalMotivation: in.MentalMotivation,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	id, err := s.store.InsertRecoveryAssessment(ctx, models.RecoveryAssessment{
		UserID:           userID,
		Date:             date,
		SleepQuality:     in.SleepQuality,
		MuscleSoreness:   in.MuscleSoreness,
		MentalMotivation: in.MentalMotivation,
		TotalScore:       eval.TotalScore,
		VolumeAdjustment: eval.Directive,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.RecoveryDirective(eval.Directive)
	s.logger.Info("recovery assessment submitted",
		"user_id", userID,
		"date", date.Format(time.DateOnly),
		"score", eval.TotalScore,
		"directive", eval.Directive,
	)
	return &RecoveryResult{ID: id, Date: date.Format(time.DateOnly), Evaluation: eval}, nil
}

// TodayRecoveryAssessment returns the caller's assessment for today.
func (s *Service) TodayRecoveryAssessment(ctx context.Context, userID int64) (*models.RecoveryAssessment, error) {
	return s.store.GetRecoveryAssessment(ctx, userID, s.today())
}

// AdjustedExercise is one exercise of an adjusted day plan.
type AdjustedExercise struct {
	ProgramExerciseID int64  `json:"program_exercise_id"`
	ExerciseID        int64  `json:"exercise_id"`
	ExerciseName      string `json:"exercise_name"`
	OrderIndex        int    `json:"order_index"`
	PlannedSets       int    `json:"planned_sets"`
	AdjustedSets      int    `json:"adjusted_sets"`
	Reps              string `json:"reps"`
	RIR               int    `json:"rir"`
}

// AdjustedDayPlan is a program day with sets adjusted by a recovery directive.
type AdjustedDayPlan struct {
	ProgramDayID int64              `json:"program_day_id"`
	DayName      string             `json:"day_name"`
	Date         string             `json:"date"`
	Assessed     bool               `json:"assessed"`
	Directive    recovery.Directive `json:"adjustment_directive"`
	Skipped      bool               `json:"skipped"`
	Exercises    []AdjustedExercise `json:"exercises"`
}

// AdjustedDay applies the directive of the caller's assessment on date to a
// program day. Without an assessment the plan is returned unchanged.
func (s *Service) AdjustedDay(ctx context.Context, userID, dayID int64, date string) (*AdjustedDayPlan, error) {
	d, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	day, _, err := ownedDay(ctx, s.store, userID, dayID, false)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListDayExercises(ctx, dayID)
	if err != nil {
		return nil, err
	}

	plan := &AdjustedDayPlan{
		ProgramDayID: day.ID,
		DayName:      day.DayName,
		Date:         d.Format(time.DateOnly),
		Directive:    recovery.None,
		Exercises:    make([]AdjustedExercise, 0, len(rows)),
	}
	a, err := s.store.GetRecoveryAssessment(ctx, userID, d)
	switch {
	case err == nil:
		plan.Assessed = true
		plan.Directive = a.VolumeAdjustment
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	plan.Skipped = plan.Directive == recovery.RestDay

	for _, row := range rows {
		plan.Exercises = append(plan.Exercises, AdjustedExercise{
			ProgramExerciseID: row.ID,
			ExerciseID:        row.ExerciseID,
			ExerciseName:      row.ExerciseName,
			OrderIndex:        row.OrderIndex,
			PlannedSets:       row.Sets,
			AdjustedSets:      recovery.AdjustSets(row.Sets, plan.Directive),
			Reps:              row.RepRange,
			RIR:               row.RIR,
		})
	}
	return plan, nil
}
