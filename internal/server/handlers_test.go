package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/fitflow/internal/metrics"
	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

const testAPIKey = "test-key"

// stubPlanner implements the handful of planner calls the handler tests
// exercise. Any other call panics on the nil embedded interface.
type stubPlanner struct {
	Planner

	err        error
	gotUserID  int64
	gotID      int64
	gotAdd     planner.AddExerciseInput
	gotAdvance planner.AdvanceInput
	gotWeeks   int
	gotGroup   string
	gotOrder   []planner.ReorderItem
}

func (p *stubPlanner) Landmarks() volume.Landmarks { return volume.DefaultLandmarks() }

func (p *stubPlanner) ListExercises(context.Context) ([]models.Exercise, error) {
	return []models.Exercise{{ID: 1, Name: "Bench Press", MuscleGroups: []volume.MuscleGroup{volume.Chest}}}, p.err
}

func (p *stubPlanner) AddExercise(_ context.Context, userID int64, in planner.AddExerciseInput) (*planner.AddExerciseResult, error) {
	p.gotUserID, p.gotAdd = userID, in
	if p.err != nil {
		return nil, p.err
	}
	msg := "Adding this exercise will exceed MRV for chest (28 > 22)"
	return &planner.AddExerciseResult{ProgramExerciseID: 77, VolumeWarning: &msg}, nil
}

func (p *stubPlanner) DeleteExercise(_ context.Context, userID, id int64) (*planner.DeleteExerciseResult, error) {
	p.gotUserID, p.gotID = userID, id
	if p.err != nil {
		return nil, p.err
	}
	return &planner.DeleteExerciseResult{Deleted: true}, nil
}

func (p *stubPlanner) SwapExercise(_ context.Context, _ int64, id, newID int64) (*planner.SwapResult, error) {
	p.gotID = id
	if p.err != nil {
		return nil, p.err
	}
	return &planner.SwapResult{Swapped: true, OldExerciseName: "Bench Press", NewExerciseName: "Dumbbell Press"}, nil
}

func (p *stubPlanner) ReorderExercises(_ context.Context, _ int64, dayID int64, items []planner.ReorderItem) (*planner.ReorderResult, error) {
	p.gotID, p.gotOrder = dayID, items
	return &planner.ReorderResult{Reordered: true}, p.err
}

func (p *stubPlanner) AdvancePhase(_ context.Context, _ int64, programID int64, in planner.AdvanceInput) (*planner.AdvanceResult, error) {
	p.gotID, p.gotAdvance = programID, in
	if p.err != nil {
		return nil, p.err
	}
	return &planner.AdvanceResult{PreviousPhase: "mev", NewPhase: "mav", MesocycleWeek: 2, VolumeMultiplier: 1.2, ExercisesUpdated: 3}, nil
}

func (p *stubPlanner) VolumeTrends(_ context.Context, _ int64, weeks int, group string) ([]volume.WeekVolume, error) {
	p.gotWeeks, p.gotGroup = weeks, group
	return []volume.WeekVolume{}, p.err
}

func (p *stubPlanner) CreateWorkout(_ context.Context, userID int64, in planner.CreateWorkoutInput) (*models.Workout, error) {
	p.gotUserID = userID
	if p.err != nil {
		return nil, p.err
	}
	return &models.Workout{ID: 9, UserID: userID, Status: models.WorkoutInProgress}, nil
}

func newTestServer(t *testing.T, p Planner) (*Server, *metrics.Manager) {
	t.Helper()
	m := metrics.NewTestManager()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(p, nil, testAPIKey, m, log), m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})
	rec := do(t, s, http.MethodGet, "/api/v1/me", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info UserInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "local", info.Login)
	assert.Equal(t, "Local Dev User", info.DisplayName)
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	rec := httptest.NewRecorder()

	s.handleMe(rec, req.WithContext(ctx))

	var info UserInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "alice@example.com", info.Login)
	assert.Equal(t, "Alice", info.DisplayName)
}

func TestHealthzNeedsNoKey(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresKey(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAddExerciseCreated(t *testing.T) {
	p := &stubPlanner{}
	s, _ := newTestServer(t, p)

	rec := do(t, s, http.MethodPost, "/api/v1/program-exercises",
		`{"program_day_id":3,"exercise_id":4,"sets":5,"reps":"8-12","rir":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res planner.AddExerciseResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, int64(77), res.ProgramExerciseID)
	require.NotNil(t, res.VolumeWarning)
	assert.Contains(t, *res.VolumeWarning, "(28 > 22)")

	assert.Equal(t, devUserID, p.gotUserID)
	assert.Equal(t, planner.AddExerciseInput{ProgramDayID: 3, ExerciseID: 4, Sets: 5, Reps: "8-12", RIR: 2}, p.gotAdd)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", fmt.Errorf("program exercise 5: %w", planner.ErrNotFound), http.StatusNotFound, "program exercise 5: not found"},
		{"invalid", fmt.Errorf("%w: sets must be between 1 and 10", planner.ErrInvalidArgument), http.StatusBadRequest, "sets must be between 1 and 10"},
		{"incompatible", fmt.Errorf("%w: x", planner.ErrIncompatibleMuscleGroups), http.StatusUnprocessableEntity, "x"},
		{"already submitted", planner.ErrAlreadySubmitted, http.StatusConflict, "already submitted"},
		{"internal", fmt.Errorf("query: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &stubPlanner{err: tt.err})
			rec := do(t, s, http.MethodDelete, "/api/v1/program-exercises/5", "")
			assert.Equal(t, tt.status, rec.Code)
			msg := decodeError(t, rec)
			assert.Contains(t, msg, tt.msg)
			assert.NotContains(t, msg, "connection reset")
		})
	}
}

func TestInvalidPathID(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})
	for _, path := range []string{"/api/v1/program-exercises/abc", "/api/v1/program-exercises/0", "/api/v1/program-exercises/-3"} {
		rec := do(t, s, http.MethodDelete, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})
	rec := do(t, s, http.MethodPost, "/api/v1/program-exercises", `{"sets":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid JSON")
}

func TestSwapRequiresNewExerciseID(t *testing.T) {
	p := &stubPlanner{}
	s, _ := newTestServer(t, p)

	rec := do(t, s, http.MethodPut, "/api/v1/program-exercises/8/swap", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/v1/program-exercises/8/swap", `{"new_exercise_id":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(8), p.gotID)
}

func TestReorderPassesItems(t *testing.T) {
	p := &stubPlanner{}
	s, _ := newTestServer(t, p)

	rec := do(t, s, http.MethodPatch, "/api/v1/program-days/4/reorder",
		`{"exercise_order":[{"program_exercise_id":10,"new_order_index":1},{"program_exercise_id":11,"new_order_index":0}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), p.gotID)
	assert.Equal(t, []planner.ReorderItem{{ProgramExerciseID: 10, NewOrderIndex: 1}, {ProgramExerciseID: 11, NewOrderIndex: 0}}, p.gotOrder)
}

func TestAdvancePhaseBody(t *testing.T) {
	t.Run("empty body is automatic", func(t *testing.T) {
		p := &stubPlanner{}
		s, _ := newTestServer(t, p)
		rec := do(t, s, http.MethodPatch, "/api/v1/programs/2/advance-phase", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, planner.AdvanceInput{}, p.gotAdvance)

		var res planner.AdvanceResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.InDelta(t, 1.2, res.VolumeMultiplier, 1e-9)
	})
	t.Run("manual", func(t *testing.T) {
		p := &stubPlanner{}
		s, _ := newTestServer(t, p)
		rec := do(t, s, http.MethodPatch, "/api/v1/programs/2/advance-phase", `{"manual":true,"target_phase":"deload"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, planner.AdvanceInput{Manual: true, TargetPhase: "deload"}, p.gotAdvance)
	})
}

func TestVolumeTrendsQuery(t *testing.T) {
	p := &stubPlanner{}
	s, _ := newTestServer(t, p)

	rec := do(t, s, http.MethodGet, "/api/v1/analytics/volume/trends?weeks=12&muscle_group=chest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, p.gotWeeks)
	assert.Equal(t, "chest", p.gotGroup)

	rec = do(t, s, http.MethodGet, "/api/v1/analytics/volume/trends?weeks=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorkoutWithoutBody(t *testing.T) {
	p := &stubPlanner{}
	s, _ := newTestServer(t, p)
	rec := do(t, s, http.MethodPost, "/api/v1/workouts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, devUserID, p.gotUserID)
}

func TestLandmarksTable(t *testing.T) {
	s, _ := newTestServer(t, &stubPlanner{})
	rec := do(t, s, http.MethodGet, "/api/v1/landmarks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var lm map[string]volume.Landmark
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lm))
	assert.Equal(t, volume.Landmark{MEV: 8, MAV: 14, MRV: 22}, lm["chest"])
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	s, m := newTestServer(t, &stubPlanner{})
	do(t, s, http.MethodDelete, "/api/v1/program-exercises/5", "")
	do(t, s, http.MethodDelete, "/api/v1/program-exercises/6", "")

	got := testutil.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodDelete, "/api/v1/program-exercises/{id}", "200"))
	assert.Equal(t, 2.0, got)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GaugeRequests))
}
