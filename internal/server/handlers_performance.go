package server

import (
	"net/http"
	"strconv"
)

func (s *Server) handleActiveProgram(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.GetActiveProgram(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLastPerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.planner.LastPerformance(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOneRMProgression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exerciseID, err := strconv.ParseInt(q.Get("exercise_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id must be an integer"})
		return
	}
	res, err := s.planner.OneRMProgression(r.Context(), userIDFromContext(r), exerciseID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.ConsistencyMetrics(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
