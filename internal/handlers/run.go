package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mfadvisor-backend/internal/models"
)

type runRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRecent(ctx context.Context, limit int) ([]models.Run, error)
}

// RunHandler exposes the crew run audit log.
type RunHandler struct {
	runRepo runRepository
}

func NewRunHandler(runRepo runRepository) *RunHandler {
	return &RunHandler{runRepo: runRepo}
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid run ID", r))
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), runID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Run not found", r))
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.runRepo.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("DB_ERROR", "Failed to list runs", r))
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}

	writeJSON(w, http.StatusOK, runs)
}
