// Package planner orchestrates the volume engine against persisted program
// state. Every mutation runs inside one Store transaction that first locks
// the owning program row.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/recovery"
	"github.com/claude/fitflow/internal/volume"
)

// Recorder receives domain events for metrics.
type Recorder interface {
	VolumeWarning(issue volume.Issue)
	PhaseAdvanced(to mesocycle.Phase)
	RecoveryDirective(d recovery.Directive)
}

type nopRecorder struct{}

func (nopRecorder) VolumeWarning(volume.Issue)           {}
func (nopRecorder) PhaseAdvanced(mesocycle.Phase)        {}
func (nopRecorder) RecoveryDirective(recovery.Directive) {}

// Service implements the planner operations.
type Service struct {
	store     Store
	landmarks volume.Landmarks
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
	recorder  Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithLandmarks replaces the default landmark table.
func WithLandmarks(lm volume.Landmarks) Option {
	return func(s *Service) { s.landmarks = lm }
}

// WithLocation sets the time zone used for "today" and ISO weeks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// New creates a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		landmarks: volume.DefaultLandmarks(),
		loc:       time.UTC,
		now:       time.Now,
		logger:    slog.Default(),
		recorder:  nopRecorder{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Landmarks returns the landmark table in effect.
func (s *Service) Landmarks() volume.Landmarks {
	return s.landmarks
}

// Location returns the configured time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

// parseDate parses YYYY-MM-DD in the service time zone. Empty means today.
func (s *Service) parseDate(v string) (time.Time, error) {
	if v == "" {
		return s.today(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, v, s.loc)
	if err != nil {
		return time.Time{}, invalidf("date must be YYYY-MM-DD, got %q", v)
	}
	return d, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ownedProgram loads a program, optionally locking it, and hides programs
// belonging to other users behind ErrNotFound.
func ownedProgram(ctx context.Context, r Repo, userID, programID int64, lock bool) (*models.Program, error) {
	var (
		p   *models.Program
		err error
	)
	if lock {
		p, err = r.LockProgram(ctx, programID)
	} else {
		p, err = r.GetProgram(ctx, programID)
	}
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("program %d: %w", programID, ErrNotFound)
	}
	return p, nil
}

// ownedDay resolves a program day and its owning program.
func ownedDay(ctx context.Context, r Repo, userID, dayID int64, lock bool) (*models.ProgramDay, *models.Program, error) {
	day, err := r.GetProgramDay(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}
	p, err := ownedProgram(ctx, r, userID, day.ProgramID, lock)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, fmt.Errorf("program day %d: %w", dayID, ErrNotFound)
		}
		return nil, nil, err
	}
	return day, p, nil
}

// plannedTotals sums a program's weekly plan per muscle group.
func plannedTotals(rows []models.ProgramExerciseDetail) volume.Totals {
	entries := make([]volume.Entry, len(rows))
	for i, r := range rows {
		entries[i] = volume.Entry{MuscleGroups: r.MuscleGroups, Sets: r.Sets}
	}
	return volume.Aggregate(entries)
}

func (s *Service) recordWarnings(ws []volume.Warning) {
	for _, w := range ws {
		s.recorder.VolumeWarning(w.Issue)
	}
}
