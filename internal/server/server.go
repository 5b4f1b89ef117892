package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitflow/internal/metrics"
	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

// Planner is the set of planner operations exposed over HTTP.
type Planner interface {
	CreateDefaultProgram(ctx context.Context, userID int64) (*planner.CreatedProgram, error)
	GetActiveProgram(ctx context.Context, userID int64) (*planner.ProgramView, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	Landmarks() volume.Landmarks

	AddExercise(ctx context.Context, userID int64, in planner.AddExerciseInput) (*planner.AddExerciseResult, error)
	UpdateExercise(ctx context.Context, userID, id int64, in planner.UpdateExerciseInput) (*planner.UpdateExerciseResult, error)
	DeleteExercise(ctx context.Context, userID, id int64) (*planner.DeleteExerciseResult, error)
	SwapExercise(ctx context.Context, userID, id, newExerciseID int64) (*planner.SwapResult, error)
	ReorderExercises(ctx context.Context, userID, dayID int64, items []planner.ReorderItem) (*planner.ReorderResult, error)
	AdjustedDay(ctx context.Context, userID, dayID int64, date string) (*planner.AdjustedDayPlan, error)

	AdvancePhase(ctx context.Context, userID, programID int64, in planner.AdvanceInput) (*planner.AdvanceResult, error)
	GetVolumeAnalysis(ctx context.Context, userID, programID int64) (*volume.Analysis, error)

	SubmitRecoveryAssessment(ctx context.Context, userID int64, in planner.RecoveryInput) (*planner.RecoveryResult, error)
	TodayRecoveryAssessment(ctx context.Context, userID int64) (*models.RecoveryAssessment, error)

	CurrentWeekVolume(ctx context.Context, userID int64) (*volume.WeekReport, error)
	VolumeTrends(ctx context.Context, userID int64, weeks int, muscleGroup string) ([]volume.WeekVolume, error)
	OneRMProgression(ctx context.Context, userID, exerciseID int64, startDate, endDate string) ([]planner.OneRMPoint, error)
	LastPerformance(ctx context.Context, userID, exerciseID int64) (*planner.LastPerformance, error)
	ConsistencyMetrics(ctx context.Context, userID int64) (*planner.Consistency, error)

	CreateWorkout(ctx context.Context, userID int64, in planner.CreateWorkoutInput) (*models.Workout, error)
	LogSet(ctx context.Context, userID, workoutID int64, in planner.LogSetInput) (*models.WorkoutSet, error)
	CompleteWorkout(ctx context.Context, userID, workoutID int64) (*models.Workout, error)
}

var _ Planner = (*planner.Service)(nil)

// UserStore resolves a tailnet login to a local user id.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int64, error)
}

// Ingester imports one training-log export for a user.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int64) (*models.ImportStats, error)
}

// ImportLogs lists past import runs.
type ImportLogs interface {
	QueryImportLogs(ctx context.Context, userID int64, limit int) ([]models.ImportLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	planner Planner
	users   UserStore
	alpha   Ingester
	imports ImportLogs
	metrics *metrics.Manager
	whois   WhoIser
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. m may be nil.
func New(p Planner, users UserStore, apiKey string, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		planner: p,
		users:   users,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(s.identity)

		r.Get("/me", s.handleMe)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}/last-performance", s.handleLastPerformance)
		r.Get("/landmarks", s.handleLandmarks)
		r.Get("/programs", s.handleActiveProgram)
		r.Post("/programs", s.handleCreateProgram)
		r.Patch("/programs/{id}/advance-phase", s.handleAdvancePhase)
		r.Get("/programs/{id}/volume", s.handleVolumeAnalysis)

		r.Post("/program-exercises", s.handleAddExercise)
		r.Patch("/program-exercises/{id}", s.handleUpdateExercise)
		r.Delete("/program-exercises/{id}", s.handleDeleteExercise)
		r.Put("/program-exercises/{id}/swap", s.handleSwapExercise)

		r.Patch("/program-days/{id}/reorder", s.handleReorder)
		r.Get("/program-days/{id}/adjusted", s.handleAdjustedDay)

		r.Post("/recovery-assessments", s.handleSubmitRecovery)
		r.Get("/recovery-assessments/today", s.handleTodayRecovery)

		r.Get("/analytics/volume/current-week", s.handleCurrentWeekVolume)
		r.Get("/analytics/volume/trends", s.handleVolumeTrends)
		r.Get("/analytics/1rm-progression", s.handleOneRMProgression)
		r.Get("/analytics/consistency", s.handleConsistency)

		r.Post("/workouts", s.handleCreateWorkout)
		r.Post("/workouts/{id}/sets", s.handleLogSet)
		r.Post("/workouts/{id}/complete", s.handleCompleteWorkout)

		r.Post("/ingest/alpha", s.handleAlphaIngest)
		r.Get("/imports", s.handleImportLogs)
	})
}

// SetTailscale switches identity resolution from the dev user to tailnet
// WhoIs lookups.
func (s *Server) SetTailscale(wc WhoIser) {
	s.whois = wc
}

// SetImports enables the Alpha Progression import and the import history.
// Both endpoints answer 503 until it is called.
func (s *Server) SetImports(alpha Ingester, logs ImportLogs) {
	s.alpha = alpha
	s.imports = logs
}

// SetMetricsHandler mounts the Prometheus scrape endpoint.
func (s *Server) SetMetricsHandler(h http.Handler) {
	s.router.Handle("/metrics", h)
}

// SetMCP mounts the MCP streamable HTTP handler behind the same API key and
// identity middleware as the REST API.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey), s.identity).Handle("/mcp", h)
}
