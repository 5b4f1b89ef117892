package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitflow/internal/ingest"
	"github.com/claude/fitflow/internal/planner"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.planner.ListExercises(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleLandmarks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Landmarks())
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.CreateDefaultProgram(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleAdvancePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in planner.AdvanceInput
	if !decodeOptionalBody(w, r, &in) {
		return
	}
	res, err := s.planner.AdvancePhase(r.Context(), userIDFromContext(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVolumeAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.planner.GetVolumeAnalysis(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var in planner.AddExerciseInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.planner.AddExercise(r.Context(), userIDFromContext(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in planner.UpdateExerciseInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.planner.UpdateExercise(r.Context(), userIDFromContext(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.planner.DeleteExercise(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type swapRequest struct {
	NewExerciseID int64 `json:"new_exercise_id"`
}

func (s *Server) handleSwapExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body swapRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.NewExerciseID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "new_exercise_id is required"})
		return
	}
	res, err := s.planner.SwapExercise(r.Context(), userIDFromContext(r), id, body.NewExerciseID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type reorderRequest struct {
	ExerciseOrder []planner.ReorderItem `json:"exercise_order"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	dayID, ok := pathID(w, r)
	if !ok {
		return
	}
	var body reorderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	res, err := s.planner.ReorderExercises(r.Context(), userIDFromContext(r), dayID, body.ExerciseOrder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAdjustedDay(w http.ResponseWriter, r *http.Request) {
	dayID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.planner.AdjustedDay(r.Context(), userIDFromContext(r), dayID, r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSubmitRecovery(w http.ResponseWriter, r *http.Request) {
	var in planner.RecoveryInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.planner.SubmitRecoveryAssessment(r.Context(), userIDFromContext(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleTodayRecovery(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.TodayRecoveryAssessment(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCurrentWeekVolume(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.CurrentWeekVolume(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVolumeTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weeks := 0
	if v := q.Get("weeks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weeks must be an integer"})
			return
		}
		weeks = n
	}
	res, err := s.planner.VolumeTrends(r.Context(), userIDFromContext(r), weeks, q.Get("muscle_group"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var in planner.CreateWorkoutInput
	if !decodeOptionalBody(w, r, &in) {
		return
	}
	res, err := s.planner.CreateWorkout(r.Context(), userIDFromContext(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	workoutID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in planner.LogSetInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.planner.LogSet(r.Context(), userIDFromContext(r), workoutID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.planner.CompleteWorkout(r.Context(), userIDFromContext(r), workoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeError maps planner errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, planner.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, planner.ErrInvalidArgument), errors.Is(err, ingest.ErrMalformed):
		status = http.StatusBadRequest
	case errors.Is(err, planner.ErrIncompatibleMuscleGroups):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrAlreadySubmitted):
		status = http.StatusConflict
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// decodeOptionalBody accepts an empty body and leaves v at its zero value.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid id %q", raw)})
		return 0, false
	}
	return id, true
}
