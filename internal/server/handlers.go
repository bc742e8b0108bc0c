package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/pipeline"
	"github.com/connectsphere/connect-cli/internal/store"
)

// discoverResponse is the widget-facing payload for one finished run.
type discoverResponse struct {
	RunID       string                  `json:"run_id"`
	Connections []model.FinalConnection `json:"connections"`
	Stats       model.RunStats          `json:"stats"`
	Log         []pipeline.LogEntry     `json:"log,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var params model.RunParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := pipeline.ValidateParams(params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.Run(r.Context(), params)
	if err != nil {
		zap.L().Error("discovery failed",
			zap.String("target_company", params.TargetCompany),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "discovery failed")
		return
	}

	writeJSON(w, http.StatusOK, discoverResponse{
		RunID:       result.RunID,
		Connections: result.Connections,
		Stats:       result.Stats,
		Log:         result.Log,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run storage disabled")
		return
	}

	filter := store.RunFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		filter.Status = model.RunStatus(v)
	}
	if v := q.Get("company"); v != "" {
		filter.TargetCompany = v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run storage disabled")
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
