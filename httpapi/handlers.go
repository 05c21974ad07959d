// Package httpapi serves stored runs over a read-only JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/store"
)

// RunReader is the read side of the store.
type RunReader interface {
	Runs(ctx context.Context) ([]store.Run, error)
	Run(ctx context.Context, id string) (store.Run, error)
	Pairs(ctx context.Context, runID, status string) ([]store.PairRecord, error)
	AUCs(ctx context.Context, runID string) ([]float64, error)
}

// Handler serves the API routes.
type Handler struct {
	runs   RunReader
	logger *zap.Logger
}

// NewHandler returns a Handler over runs. A nil logger is replaced by a no-op.
func NewHandler(runs RunReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runs: runs, logger: logger}
}

// RegisterRoutes mounts every route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/api/runs", h.ListRuns)
	r.Get("/api/runs/{id}", h.GetRun)
	r.Get("/api/runs/{id}/pairs", h.GetPairs)
	r.Get("/api/runs/{id}/auc", h.GetAUCs)
}

// HealthCheck answers OK.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListRuns returns every run, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.Runs(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetPairs returns the pairs of a run, optionally filtered by ?status=.
func (h *Handler) GetPairs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" {
		st, err := core.ParseStatus(status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = st.String()
	}
	pairs, err := h.runs.Pairs(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pairs)
}

// aucResponse carries AUCs with undefined values as null.
type aucResponse struct {
	RunID string     `json:"run_id"`
	AUCs  []*float64 `json:"aucs"`
	Mean  *float64   `json:"mean"`
}

// GetAUCs returns the per-run AUCs of a run.
func (h *Handler) GetAUCs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	aucs, err := h.runs.AUCs(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := aucResponse{RunID: id, AUCs: make([]*float64, len(aucs))}
	var sum float64
	n := 0
	for i, a := range aucs {
		if math.IsNaN(a) {
			continue
		}
		v := a
		resp.AUCs[i] = &v
		sum += a
		n++
	}
	if n > 0 {
		mean := sum / float64(n)
		resp.Mean = &mean
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps store errors to HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
