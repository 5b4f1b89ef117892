package planner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/volume"
)

// memStore is an in-memory Store. WithTx snapshots every table and restores
// the snapshot when fn fails.
type memStore struct {
	programs    map[int64]models.Program
	days        map[int64]models.ProgramDay
	exercises   map[int64]models.Exercise
	progEx      map[int64]models.ProgramExercise
	assessments map[int64]models.RecoveryAssessment
	workouts    map[int64]models.Workout
	sets        map[int64]models.WorkoutSet
	nextID      int64

	// failOn makes the named method fail once it is reached.
	failOn string
	locks  []int64
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		programs:    map[int64]models.Program{},
		days:        map[int64]models.ProgramDay{},
		exercises:   map[int64]models.Exercise{},
		progEx:      map[int64]models.ProgramExercise{},
		assessments: map[int64]models.RecoveryAssessment{},
		workouts:    map[int64]models.Workout{},
		sets:        map[int64]models.WorkoutSet{},
		nextID:      1000,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return fmt.Errorf("%s: %w", method, errInjected)
	}
	return nil
}

type memSnapshot struct {
	programs    map[int64]models.Program
	days        map[int64]models.ProgramDay
	progEx      map[int64]models.ProgramExercise
	assessments map[int64]models.RecoveryAssessment
	workouts    map[int64]models.Workout
	sets        map[int64]models.WorkoutSet
}

func (m *memStore) WithTx(ctx context.Context, fn func(Repo) error) error {
	snap := memSnapshot{
		programs:    maps.Clone(m.programs),
		days:        maps.Clone(m.days),
		progEx:      maps.Clone(m.progEx),
		assessments: maps.Clone(m.assessments),
		workouts:    maps.Clone(m.workouts),
		sets:        maps.Clone(m.sets),
	}
	restore := func() {
		m.programs = snap.programs
		m.days = snap.days
		m.progEx = snap.progEx
		m.assessments = snap.assessments
		m.workouts = snap.workouts
		m.sets = snap.sets
	}
	if err := fn(m); err != nil {
		restore()
		return err
	}
	// Deferred unique (program_day_id, order_index) check at commit.
	seen := map[[2]int64]bool{}
	for _, pe := range m.progEx {
		k := [2]int64{pe.ProgramDayID, int64(pe.OrderIndex)}
		if seen[k] {
			restore()
			return fmt.Errorf("order_index collision on day %d: %w", pe.ProgramDayID, ErrInvalidArgument)
		}
		seen[k] = true
	}
	return nil
}

func (m *memStore) GetProgram(_ context.Context, id int64) (*models.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return nil, fmt.Errorf("program %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) LockProgram(ctx context.Context, id int64) (*models.Program, error) {
	m.locks = append(m.locks, id)
	return m.GetProgram(ctx, id)
}

func (m *memStore) GetActiveProgram(_ context.Context, userID int64) (*models.Program, error) {
	var best *models.Program
	for _, p := range m.programs {
		if p.UserID != userID {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			p := p
			best = &p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("active program for user %d: %w", userID, ErrNotFound)
	}
	return best, nil
}

func (m *memStore) UpdateProgramPhase(_ context.Context, id int64, phase mesocycle.Phase, week int) error {
	if err := m.fail("UpdateProgramPhase"); err != nil {
		return err
	}
	p := m.programs[id]
	p.MesocyclePhase = phase
	p.MesocycleWeek = week
	m.programs[id] = p
	return nil
}

func (m *memStore) InsertProgram(_ context.Context, p models.Program) (int64, error) {
	p.ID = m.id()
	p.CreatedAt = time.Unix(p.ID, 0)
	m.programs[p.ID] = p
	return p.ID, nil
}

func (m *memStore) InsertProgramDay(_ context.Context, d models.ProgramDay) (int64, error) {
	d.ID = m.id()
	m.days[d.ID] = d
	return d.ID, nil
}

func (m *memStore) ListProgramDays(_ context.Context, programID int64) ([]models.ProgramDay, error) {
	var out []models.ProgramDay
	for _, d := range m.days {
		if d.ProgramID == programID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) GetExerciseByName(_ context.Context, name string) (*models.Exercise, error) {
	for _, e := range m.exercises {
		if strings.EqualFold(e.Name, name) {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("exercise %q: %w", name, ErrNotFound)
}

func (m *memStore) GetProgramDay(_ context.Context, id int64) (*models.ProgramDay, error) {
	d, ok := m.days[id]
	if !ok {
		return nil, fmt.Errorf("program day %d: %w", id, ErrNotFound)
	}
	return &d, nil
}

func (m *memStore) GetExercise(_ context.Context, id int64) (*models.Exercise, error) {
	e, ok := m.exercises[id]
	if !ok {
		return nil, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	return &e, nil
}

func (m *memStore) ListExercises(_ context.Context) ([]models.Exercise, error) {
	out := make([]models.Exercise, 0, len(m.exercises))
	for _, e := range m.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) detail(pe models.ProgramExercise) models.ProgramExerciseDetail {
	ex := m.exercises[pe.ExerciseID]
	return models.ProgramExerciseDetail{ProgramExercise: pe, ExerciseName: ex.Name, MuscleGroups: ex.MuscleGroups}
}

func (m *memStore) GetProgramExercise(_ context.Context, id int64) (*models.ProgramExerciseDetail, error) {
	pe, ok := m.progEx[id]
	if !ok {
		return nil, fmt.Errorf("program exercise %d: %w", id, ErrNotFound)
	}
	d := m.detail(pe)
	return &d, nil
}

func (m *memStore) ListProgramExercises(_ context.Context, programID int64) ([]models.ProgramExerciseDetail, error) {
	var out []models.ProgramExerciseDetail
	for _, pe := range m.progEx {
		if m.days[pe.ProgramDayID].ProgramID == programID {
			out = append(out, m.detail(pe))
		}
	}
	sortDetails(out)
	return out, nil
}

func (m *memStore) ListDayExercises(_ context.Context, dayID int64) ([]models.ProgramExerciseDetail, error) {
	var out []models.ProgramExerciseDetail
	for _, pe := range m.progEx {
		if pe.ProgramDayID == dayID {
			out = append(out, m.detail(pe))
		}
	}
	sortDetails(out)
	return out, nil
}

func sortDetails(rows []models.ProgramExerciseDetail) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProgramDayID != rows[j].ProgramDayID {
			return rows[i].ProgramDayID < rows[j].ProgramDayID
		}
		return rows[i].OrderIndex < rows[j].OrderIndex
	})
}

func (m *memStore) InsertProgramExercise(_ context.Context, pe models.ProgramExercise) (int64, error) {
	if err := m.fail("InsertProgramExercise"); err != nil {
		return 0, err
	}
	pe.ID = m.id()
	m.progEx[pe.ID] = pe
	return pe.ID, nil
}

func (m *memStore) UpdateProgramExercise(_ context.Context, id int64, patch models.ProgramExercisePatch) error {
	pe := m.progEx[id]
	if patch.Sets != nil {
		pe.Sets = *patch.Sets
	}
	if patch.RepRange != nil {
		pe.RepRange = *patch.RepRange
	}
	if patch.RIR != nil {
		pe.RIR = *patch.RIR
	}
	m.progEx[id] = pe
	return nil
}

func (m *memStore) SetProgramExerciseSets(_ context.Context, id int64, sets int) error {
	if err := m.fail("SetProgramExerciseSets"); err != nil {
		return err
	}
	pe := m.progEx[id]
	pe.Sets = sets
	m.progEx[id] = pe
	return nil
}

func (m *memStore) SetProgramExerciseExercise(_ context.Context, id, exerciseID int64) error {
	pe := m.progEx[id]
	pe.ExerciseID = exerciseID
	m.progEx[id] = pe
	return nil
}

func (m *memStore) SetProgramExerciseOrder(_ context.Context, id int64, orderIndex int) error {
	if err := m.fail("SetProgramExerciseOrder"); err != nil {
		return err
	}
	pe := m.progEx[id]
	pe.OrderIndex = orderIndex
	m.progEx[id] = pe
	return nil
}

func (m *memStore) DeleteProgramExercise(_ context.Context, id int64) error {
	delete(m.progEx, id)
	return nil
}

func (m *memStore) GetRecoveryAssessment(_ context.Context, userID int64, date time.Time) (*models.RecoveryAssessment, error) {
	for _, a := range m.assessments {
		if a.UserID == userID && a.Date.Equal(date) {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("recovery assessment for %s: %w", date.Format(time.DateOnly), ErrNotFound)
}

func (m *memStore) InsertRecoveryAssessment(ctx context.Context, a models.RecoveryAssessment) (int64, error) {
	if _, err := m.GetRecoveryAssessment(ctx, a.UserID, a.Date); err == nil {
		return 0, fmt.Errorf("recovery assessment for %s: %w", a.Date.Format(time.DateOnly), ErrAlreadySubmitted)
	}
	a.ID = m.id()
	m.assessments[a.ID] = a
	return a.ID, nil
}

func (m *memStore) InsertWorkout(_ context.Context, w models.Workout) (int64, error) {
	w.ID = m.id()
	m.workouts[w.ID] = w
	return w.ID, nil
}

func (m *memStore) GetWorkout(_ context.Context, id int64) (*models.Workout, error) {
	w, ok := m.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout %d: %w", id, ErrNotFound)
	}
	return &w, nil
}

func (m *memStore) ListWorkouts(_ context.Context, userID int64) ([]models.Workout, error) {
	var out []models.Workout
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) CompleteWorkout(_ context.Context, id int64, at time.Time) error {
	w := m.workouts[id]
	w.Status = models.WorkoutCompleted
	w.CompletedAt = &at
	m.workouts[id] = w
	return nil
}

func (m *memStore) InsertWorkoutSet(_ context.Context, s models.WorkoutSet) (int64, error) {
	if err := m.fail("InsertWorkoutSet"); err != nil {
		return 0, err
	}
	s.ID = m.id()
	m.sets[s.ID] = s
	return s.ID, nil
}

func (m *memStore) DeleteImportedWorkouts(_ context.Context, userID int64, source string, date time.Time) (int64, error) {
	var n int64
	for id, w := range m.workouts {
		if w.UserID != userID || w.Source != source || !w.Date.Equal(date) {
			continue
		}
		delete(m.workouts, id)
		for sid, s := range m.sets {
			if s.WorkoutID == id {
				delete(m.sets, sid)
			}
		}
		n++
	}
	return n, nil
}

func (m *memStore) ListCompletedSets(_ context.Context, userID int64, start, end time.Time) ([]volume.CompletedSet, error) {
	var out []volume.CompletedSet
	for _, s := range m.sets {
		w := m.workouts[s.WorkoutID]
		if w.UserID != userID || w.Status != models.WorkoutCompleted {
			continue
		}
		if w.Date.Before(start) || !w.Date.Before(end) {
			continue
		}
		out = append(out, volume.CompletedSet{WorkoutDate: w.Date, MuscleGroups: m.exercises[s.ExerciseID].MuscleGroups})
	}
	return out, nil
}

func (m *memStore) ListExerciseSets(_ context.Context, userID, exerciseID int64, start, end time.Time) ([]models.PerformedSet, error) {
	var out []models.PerformedSet
	for _, s := range m.sets {
		w := m.workouts[s.WorkoutID]
		if w.UserID != userID || s.ExerciseID != exerciseID {
			continue
		}
		if w.Date.Before(start) || !w.Date.Before(end) {
			continue
		}
		out = append(out, models.PerformedSet{
			WorkoutID:     w.ID,
			WorkoutDate:   w.Date,
			WorkoutStatus: w.Status,
			CompletedAt:   w.CompletedAt,
			SetNumber:     s.SetNumber,
			WeightKg:      s.WeightKg,
			Reps:          s.Reps,
			RIR:           s.RIR,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.WorkoutDate.Equal(b.WorkoutDate) {
			return a.WorkoutDate.Before(b.WorkoutDate)
		}
		if a.WorkoutID != b.WorkoutID {
			return a.WorkoutID < b.WorkoutID
		}
		return a.SetNumber < b.SetNumber
	})
	return out, nil
}

// Fixture builders.

func (m *memStore) addProgram(userID int64, phase mesocycle.Phase, week int) int64 {
	id := m.id()
	m.programs[id] = models.Program{ID: id, UserID: userID, Name: "PPL", MesocyclePhase: phase, MesocycleWeek: week, CreatedAt: time.Unix(id, 0)}
	return id
}

func (m *memStore) addDay(programID int64, dow int, name string) int64 {
	id := m.id()
	m.days[id] = models.ProgramDay{ID: id, ProgramID: programID, DayOfWeek: dow, DayName: name}
	return id
}

func (m *memStore) addExercise(name string, groups ...volume.MuscleGroup) int64 {
	id := m.id()
	m.exercises[id] = models.Exercise{ID: id, Name: name, MuscleGroups: groups}
	return id
}

func (m *memStore) addProgramExercise(dayID, exerciseID int64, order, sets int) int64 {
	id := m.id()
	m.progEx[id] = models.ProgramExercise{ID: id, ProgramDayID: dayID, ExerciseID: exerciseID, OrderIndex: order, Sets: sets, RepRange: "8-12", RIR: 2}
	return id
}

var _ Store = (*memStore)(nil)
