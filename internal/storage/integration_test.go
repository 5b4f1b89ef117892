package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
)

// PostgresSuite runs the repository against a throwaway Postgres container
// with every migration applied.
type PostgresSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	resource   *dockertest.Resource
	db         *DB
	svc        *planner.Service
	now        time.Time
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres integration tests need docker")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	pool, err := dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("could not create dockertest pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		s.T().Skipf("could not ping docker: %s", err)
	}
	pool.MaxWait = 2 * time.Minute
	s.dockerPool = pool

	s.resource, err = pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=fitflow",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err, "run postgres")

	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/fitflow?sslmode=disable", s.resource.GetPort("5432/tcp"))
	s.Require().NoError(pool.Retry(func() error {
		db, err := New(ctx, dsn)
		if err != nil {
			return err
		}
		s.db = db
		return nil
	}), "connect to postgres")
	s.Require().NoError(RunMigrations(dsn, "../../migrations"))

	s.now = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	s.svc = planner.New(s.db,
		planner.WithClock(func() time.Time { return s.now }),
		planner.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.resource != nil {
		if err := s.dockerPool.Purge(s.resource); err != nil {
			s.T().Logf("purge postgres: %s", err)
		}
	}
}

func (s *PostgresSuite) newUser(login string) int64 {
	id, err := s.db.GetOrCreateUser(context.Background(), login, login)
	s.Require().NoError(err)
	return id
}

func (s *PostgresSuite) exerciseID(name string) int64 {
	ex, err := s.db.GetExerciseByName(context.Background(), name)
	s.Require().NoError(err)
	return ex.ID
}

func (s *PostgresSuite) TestDefaultProgramStructure() {
	ctx := context.Background()
	user := s.newUser("structure@example.com")

	created, err := s.svc.CreateDefaultProgram(ctx, user)
	s.Require().NoError(err)

	view, err := s.svc.GetActiveProgram(ctx, user)
	s.Require().NoError(err)
	s.Equal(created.ProgramID, view.ID)
	s.Require().Len(view.Days, created.Days)

	total := 0
	prevDow := 0
	for _, d := range view.Days {
		s.Greater(d.DayOfWeek, prevDow, "days ordered by weekday")
		prevDow = d.DayOfWeek
		for i, e := range d.Exercises {
			s.Equal(i, e.OrderIndex, "day %s", d.DayName)
			s.NotEmpty(e.ExerciseName)
			s.NotEmpty(e.MuscleGroups)
		}
		total += len(d.Exercises)
	}
	s.Equal(created.Exercises, total)

	_, err = s.svc.GetActiveProgram(ctx, s.newUser("nobody@example.com"))
	s.ErrorIs(err, planner.ErrNotFound)
}

func (s *PostgresSuite) TestReorderSwapUsesDeferredUnique() {
	ctx := context.Background()
	user := s.newUser("reorder@example.com")
	_, err := s.svc.CreateDefaultProgram(ctx, user)
	s.Require().NoError(err)
	view, err := s.svc.GetActiveProgram(ctx, user)
	s.Require().NoError(err)

	day := view.Days[0]
	s.Require().GreaterOrEqual(len(day.Exercises), 3)
	first, second, third := day.Exercises[0], day.Exercises[1], day.Exercises[2]

	_, err = s.svc.ReorderExercises(ctx, user, day.ID, []planner.ReorderItem{
		{ProgramExerciseID: first.ID, NewOrderIndex: 1},
		{ProgramExerciseID: second.ID, NewOrderIndex: 0},
	})
	s.Require().NoError(err, "swap passes through a transient duplicate index")

	rows, err := s.db.ListDayExercises(ctx, day.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, rows[0].ID)
	s.Equal(first.ID, rows[1].ID)

	err = s.db.WithTx(ctx, func(r planner.Repo) error {
		return r.SetProgramExerciseOrder(ctx, third.ID, 0)
	})
	s.ErrorIs(err, planner.ErrInvalidArgument, "collision is reported at commit")

	rows, err = s.db.ListDayExercises(ctx, day.ID)
	s.Require().NoError(err)
	s.Equal(third.ID, rows[2].ID, "failed commit leaves the order alone")
	s.Equal(2, rows[2].OrderIndex)
}

func (s *PostgresSuite) TestWorkoutHistoryReads() {
	ctx := context.Background()
	user := s.newUser("history@example.com")
	bench := s.exerciseID("Barbell Bench Press")

	done, err := s.svc.CreateWorkout(ctx, user, planner.CreateWorkoutInput{Date: "2026-03-09"})
	s.Require().NoError(err)
	_, err = s.svc.LogSet(ctx, user, done.ID, planner.LogSetInput{ExerciseID: bench, SetNumber: 1, WeightKg: 80, Reps: 8, RIR: 2})
	s.Require().NoError(err)
	_, err = s.svc.LogSet(ctx, user, done.ID, planner.LogSetInput{ExerciseID: bench, SetNumber: 2, WeightKg: 80, Reps: 6, RIR: 2})
	s.Require().NoError(err)
	s.now = s.now.Add(time.Hour)
	_, err = s.svc.CompleteWorkout(ctx, user, done.ID)
	s.Require().NoError(err)

	open, err := s.svc.CreateWorkout(ctx, user, planner.CreateWorkoutInput{Date: "2026-03-10"})
	s.Require().NoError(err)
	_, err = s.svc.LogSet(ctx, user, open.ID, planner.LogSetInput{ExerciseID: bench, SetNumber: 1, WeightKg: 90, Reps: 5, RIR: 2})
	s.Require().NoError(err)

	stored, err := s.db.GetWorkout(ctx, done.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.StartedAt)
	s.Require().NotNil(stored.CompletedAt)
	s.Equal(time.Hour, stored.CompletedAt.Sub(*stored.StartedAt))

	workouts, err := s.db.ListWorkouts(ctx, user)
	s.Require().NoError(err)
	s.Require().Len(workouts, 2)
	s.Equal(open.ID, workouts[0].ID, "newest first")

	sets, err := s.db.ListExerciseSets(ctx, user, bench,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(sets, 2, "end of the range is exclusive")
	s.Equal(models.WorkoutCompleted, sets[0].WorkoutStatus)
	s.Equal("2026-03-09", sets[0].WorkoutDate.Format(time.DateOnly))
	s.Equal([]int{1, 2}, []int{sets[0].SetNumber, sets[1].SetNumber})

	points, err := s.svc.OneRMProgression(ctx, user, bench, "", "")
	s.Require().NoError(err)
	s.Equal([]planner.OneRMPoint{
		{Date: "2026-03-09", Estimated1RM: 96},
		{Date: "2026-03-10", Estimated1RM: 99},
	}, points)

	last, err := s.svc.LastPerformance(ctx, user, bench)
	s.Require().NoError(err)
	s.Equal(done.ID, last.WorkoutID)
	s.Len(last.Sets, 2)

	c, err := s.svc.ConsistencyMetrics(ctx, user)
	s.Require().NoError(err)
	s.Equal(planner.Consistency{TotalWorkouts: 2, CompletedWorkouts: 1, AdherenceRate: 0.5, AvgSessionDuration: 3600}, *c)
}

func (s *PostgresSuite) TestImportLogLifecycle() {
	ctx := context.Background()
	user := s.newUser("imports@example.com")

	id, err := s.db.InsertImportLog(ctx, models.ImportLog{UserID: user, Source: "alpha_progression", Status: models.ImportRunning})
	s.Require().NoError(err)

	ms := 120
	s.Require().NoError(s.db.UpdateImportLog(ctx, id, models.ImportLog{
		Status:      models.ImportSuccess,
		ImportStats: models.ImportStats{SessionsReceived: 2, WorkoutsImported: 2, SetsImported: 9},
		DurationMs:  &ms,
	}))

	logs, err := s.db.QueryImportLogs(ctx, user, 10)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(models.ImportSuccess, logs[0].Status)
	s.Equal(9, logs[0].SetsImported)
	s.Require().NotNil(logs[0].DurationMs)
	s.Equal(120, *logs[0].DurationMs)
}
