package server

import (
	"net/http"
	"strconv"
)

const (
	maxImportBytes  = 32 << 20
	defaultLogLimit = 50
	maxLogLimit     = 500
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	if s.alpha == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "imports are not enabled"})
		return
	}
	stats, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes), userIDFromContext(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	if s.imports == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "imports are not enabled"})
		return
	}
	limit := defaultLogLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLogLimit)
	}
	logs, err := s.imports.QueryImportLogs(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
