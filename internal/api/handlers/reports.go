package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikhilbhutani/emcoach/internal/report"
)

type ReportHandler struct {
	store report.Store
}

func NewReportHandler(store report.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// Get returns a saved report. With ?download=1 the indented JSON is served
// as an attachment named after the report timestamp.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	rep, err := h.store.Get(r.Context(), id)
	if errors.Is(err, report.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		slog.Error("failed to load report", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	if r.URL.Query().Get("download") != "1" {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	writeAttachment(w, http.StatusOK, rep)
}

// writeAttachment serves the indented report JSON as a file download.
func writeAttachment(w http.ResponseWriter, status int, rep *report.Report) {
	data, err := report.Marshal(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rep.Filename()))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
