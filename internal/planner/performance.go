package planner

import (
	"context"
	"math"
	"time"

	"github.com/claude/fitflow/internal/models"
)

// DefaultProgressionWeeks is the 1RM window when no start date is given.
const DefaultProgressionWeeks = 12

// OneRMPoint is the best estimated 1RM of one workout date.
type OneRMPoint struct {
	Date         string  `json:"date"`
	Estimated1RM float64 `json:"estimated_1rm"`
}

// SetPerformance is one set of a past workout.
type SetPerformance struct {
	SetNumber int     `json:"set_number"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
	RIR       int     `json:"rir"`
}

// LastPerformance is the most recent completed workout containing an exercise.
type LastPerformance struct {
	ExerciseID      int64            `json:"exercise_id"`
	WorkoutID       int64            `json:"workout_id"`
	LastWorkoutDate string           `json:"last_workout_date"`
	Sets            []SetPerformance `json:"sets"`
	Estimated1RM    float64          `json:"estimated_1rm"`
}

// Consistency summarizes how reliably workouts get finished.
type Consistency struct {
	TotalWorkouts      int     `json:"total_workouts"`
	CompletedWorkouts  int     `json:"completed_workouts"`
	AdherenceRate      float64 `json:"adherence_rate"`
	AvgSessionDuration int     `json:"avg_session_duration"`
}

// EstimateOneRepMax is the Epley estimate counting reps in reserve as
// reps that could have been done: weight * (1 + (reps - rir) / 30).
func EstimateOneRepMax(weightKg float64, reps, rir int) float64 {
	return weightKg * (1 + float64(reps-rir)/30)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// OneRMProgression returns the best estimated 1RM per workout date for an
// exercise, oldest first. Dates are inclusive; end defaults to today and
// start to DefaultProgressionWeeks before end. Workouts of every status count.
func (s *Service) OneRMProgression(ctx context.Context, userID, exerciseID int64, startDate, endDate string) ([]OneRMPoint, error) {
	if _, err := s.store.GetExercise(ctx, exerciseID); err != nil {
		return nil, err
	}
	end, err := s.parseDate(endDate)
	if err != nil {
		return nil, err
	}
	start := end.AddDate(0, 0, -7*DefaultProgressionWeeks)
	if startDate != "" {
		if start, err = s.parseDate(startDate); err != nil {
			return nil, err
		}
	}
	if start.After(end) {
		return nil, invalidf("start_date %s is after end_date %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	sets, err := s.store.ListExerciseSets(ctx, userID, exerciseID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	points := []OneRMPoint{}
	for _, set := range sets {
		date := set.WorkoutDate.Format(time.DateOnly)
		est := roundTo(EstimateOneRepMax(set.WeightKg, set.Reps, set.RIR), 1)
		if n := len(points); n > 0 && points[n-1].Date == date {
			points[n-1].Estimated1RM = max(points[n-1].Estimated1RM, est)
			continue
		}
		points = append(points, OneRMPoint{Date: date, Estimated1RM: est})
	}
	return points, nil
}

// LastPerformance returns the sets of the latest completed workout that
// contains the exercise. Callers with no such workout get ErrNotFound.
func (s *Service) LastPerformance(ctx context.Context, userID, exerciseID int64) (*LastPerformance, error) {
	if _, err := s.store.GetExercise(ctx, exerciseID); err != nil {
		return nil, err
	}
	sets, err := s.store.ListExerciseSets(ctx, userID, exerciseID, time.Date(1, 1, 1, 0, 0, 0, 0, s.loc), time.Date(9999, 12, 31, 0, 0, 0, 0, s.loc))
	if err != nil {
		return nil, err
	}

	var latest *models.PerformedSet
	for i := range sets {
		set := &sets[i]
		if set.WorkoutStatus != models.WorkoutCompleted {
			continue
		}
		if latest == nil || laterWorkout(set, latest) {
			latest = set
		}
	}
	if latest == nil {
		return nil, notFoundf("no completed workout contains exercise %d", exerciseID)
	}

	out := &LastPerformance{
		ExerciseID:      exerciseID,
		WorkoutID:       latest.WorkoutID,
		LastWorkoutDate: latest.WorkoutDate.Format(time.DateOnly),
		Sets:            []SetPerformance{},
	}
	best := 0.0
	for _, set := range sets {
		if set.WorkoutID != latest.WorkoutID {
			continue
		}
		out.Sets = append(out.Sets, SetPerformance{SetNumber: set.SetNumber, WeightKg: set.WeightKg, Reps: set.Reps, RIR: set.RIR})
		best = max(best, EstimateOneRepMax(set.WeightKg, set.Reps, set.RIR))
	}
	out.Estimated1RM = roundTo(best, 1)
	return out, nil
}

// laterWorkout orders by workout date, then completion time, then ID.
func laterWorkout(a, b *models.PerformedSet) bool {
	if !a.WorkoutDate.Equal(b.WorkoutDate) {
		return a.WorkoutDate.After(b.WorkoutDate)
	}
	if a.CompletedAt != nil && b.CompletedAt != nil && !a.CompletedAt.Equal(*b.CompletedAt) {
		return a.CompletedAt.After(*b.CompletedAt)
	}
	return a.WorkoutID > b.WorkoutID
}

// ConsistencyMetrics reports the share of the caller's workouts that were
// completed and the mean duration, in seconds, of completed workouts with a
// recorded start.
func (s *Service) ConsistencyMetrics(ctx context.Context, userID int64) (*Consistency, error) {
	workouts, err := s.store.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &Consistency{TotalWorkouts: len(workouts)}
	var total time.Duration
	timed := 0
	for _, w := range workouts {
		if w.Status != models.WorkoutCompleted {
			continue
		}
		c.CompletedWorkouts++
		if w.StartedAt != nil && w.CompletedAt != nil && w.CompletedAt.After(*w.StartedAt) {
			total += w.CompletedAt.Sub(*w.StartedAt)
			timed++
		}
	}
	if c.TotalWorkouts > 0 {
		c.AdherenceRate = roundTo(float64(c.CompletedWorkouts)/float64(c.TotalWorkouts), 3)
	}
	if timed > 0 {
		c.AvgSessionDuration = int(math.Round((total / time.Duration(timed)).Seconds()))
	}
	return c, nil
}
