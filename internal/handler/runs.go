package handler

import (
	"net/http"
	"strconv"

	"github.com/paiban/gunmupyo/internal/repository"
	"github.com/paiban/gunmupyo/pkg/rerrors"
)

// RunsHandler serves GET /api/v1/runs, the audit-log read path. It
// only exists when the audit log is enabled; cmd/server/main.go
// doesn't register its route otherwise.
type RunsHandler struct {
	runs *repository.RunRepository
}

// NewRunsHandler creates a handler backed by runs, which must be
// non-nil.
func NewRunsHandler(runs *repository.RunRepository) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// defaultRunsLimit caps an unparameterized request to a sensible page
// size instead of returning the entire audit table.
const defaultRunsLimit = 50

// List handles GET /api/v1/runs?limit=N, returning the N most recent
// solve runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, rerrors.New(rerrors.CodeInvalidInput, "only GET is supported"))
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, rerrors.InvalidInput("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, rerrors.Wrap(err, rerrors.CodeDatabaseError, "failed to read audit log"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}
