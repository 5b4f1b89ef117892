package planner

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/claude/fitflow/internal/models"
)

// ImportSessions stores sessions from an external training log as completed
// workouts. Re-importing a date replaces that source's workouts for the
// date. Warmups, sets that fail validation, and exercises missing from the
// catalog are skipped and counted.
func (s *Service) ImportSessions(ctx context.Context, userID int64, source string, sessions []models.ImportedSession) (*models.ImportStats, error) {
	if source == "" || source == models.WorkoutSourceManual {
		return nil, invalidf("import source must name an external log, got %q", source)
	}
	if len(sessions) == 0 {
		return nil, invalidf("no sessions to import")
	}

	var stats models.ImportStats
	err := s.store.WithTx(ctx, func(r Repo) error {
		stats = models.ImportStats{SessionsReceived: len(sessions)}
		imp := &sessionImporter{r: r, userID: userID, source: source, stats: &stats,
			catalog: map[string]*models.Exercise{}, cleared: map[time.Time]bool{}}
		for _, sess := range sessions {
			if err := imp.session(ctx, s.wallClock(sess.StartedAt)); err != nil {
				return err
			}
			if err := imp.flush(ctx, sess); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(stats.UnknownExercises)
	if stats.UnknownExercises == nil {
		stats.UnknownExercises = []string{}
	}

	s.logger.Info("workouts imported",
		"user_id", userID,
		"source", source,
		"workouts", stats.WorkoutsImported,
		"sets", stats.SetsImported,
		"skipped", stats.SetsSkipped,
	)
	return &stats, nil
}

// wallClock reads t's fields as local time in the service's zone. Exported
// logs carry no zone.
func (s *Service) wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, s.loc)
}

type sessionImporter struct {
	r       Repo
	userID  int64
	source  string
	stats   *models.ImportStats
	catalog map[string]*models.Exercise
	cleared map[time.Time]bool
	started time.Time
}

// session clears earlier imports for the session's date, once per date.
func (imp *sessionImporter) session(ctx context.Context, started time.Time) error {
	imp.started = started
	date := time.Date(started.Year(), started.Month(), started.Day(), 0, 0, 0, 0, started.Location())
	if imp.cleared[date] {
		return nil
	}
	if _, err := imp.r.DeleteImportedWorkouts(ctx, imp.userID, imp.source, date); err != nil {
		return err
	}
	imp.cleared[date] = true
	return nil
}

func (imp *sessionImporter) flush(ctx context.Context, sess models.ImportedSession) error {
	var sets []models.WorkoutSet
	for _, ex := range sess.Exercises {
		e, err := imp.exercise(ctx, ex.Name)
		if err != nil {
			return err
		}
		if e == nil {
			imp.stats.SetsSkipped += len(ex.Sets)
			continue
		}
		n := 0
		for _, set := range ex.Sets {
			in := LogSetInput{
				ExerciseID: e.ID,
				SetNumber:  n + 1,
				WeightKg:   set.WeightKg,
				Reps:       set.Reps,
				RIR:        importedRIR(set.RIR),
			}
			if set.IsWarmup || in.validate() != nil {
				imp.stats.SetsSkipped++
				continue
			}
			n++
			sets = append(sets, models.WorkoutSet{
				ExerciseID: in.ExerciseID,
				SetNumber:  in.SetNumber,
				WeightKg:   in.WeightKg,
				Reps:       in.Reps,
				RIR:        in.RIR,
				LoggedAt:   imp.started,
			})
		}
	}
	if len(sets) == 0 {
		return nil
	}

	started := imp.started
	completed := started.Add(sess.Duration)
	workoutID, err := imp.r.InsertWorkout(ctx, models.Workout{
		UserID:      imp.userID,
		Date:        time.Date(started.Year(), started.Month(), started.Day(), 0, 0, 0, 0, started.Location()),
		Status:      models.WorkoutCompleted,
		StartedAt:   &started,
		CompletedAt: &completed,
		Source:      imp.source,
	})
	if err != nil {
		return err
	}
	for _, ws := range sets {
		ws.WorkoutID = workoutID
		if _, err := imp.r.InsertWorkoutSet(ctx, ws); err != nil {
			return err
		}
	}
	imp.stats.WorkoutsImported++
	imp.stats.SetsImported += len(sets)
	return nil
}

// exercise resolves a catalog entry by name. Unknown names return nil and
// are reported once.
func (imp *sessionImporter) exercise(ctx context.Context, name string) (*models.Exercise, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := imp.catalog[key]; ok {
		return e, nil
	}
	e, err := imp.r.GetExerciseByName(ctx, strings.TrimSpace(name))
	switch {
	case errors.Is(err, ErrNotFound):
		imp.catalog[key] = nil
		imp.stats.UnknownExercises = append(imp.stats.UnknownExercises, name)
		return nil, nil
	case err != nil:
		return nil, err
	}
	imp.catalog[key] = e
	return e, nil
}

// importedRIR rounds a fractional RIR into the accepted range.
func importedRIR(v float64) int {
	return min(max(int(math.Round(v)), MinRIR), MaxRIR)
}
