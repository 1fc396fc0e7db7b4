package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kim2783/Kidstodolist/internal/catalog"
	"github.com/Kim2783/Kidstodolist/internal/middleware"
	"github.com/Kim2783/Kidstodolist/internal/models"
	"github.com/Kim2783/Kidstodolist/internal/services"
	"github.com/go-chi/chi/v5"
)

type ChecklistHandler struct {
	service *services.ChecklistService
}

func NewChecklistHandler(service *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

// View returns the reconciled checklist for every child in the session.
func (handler *ChecklistHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSession(ctx)

	view, err := handler.service.View(ctx, session)
	if err != nil {
		slog.Error("building checklist view", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load checklist"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type statusRequest struct {
	Child     string `json:"child"`
	Frequency string `json:"frequency"`
	Completed bool   `json:"completed"`
}

// UpdateStatus flips one completion flag.
func (handler *ChecklistHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSession(ctx)
	taskID := chi.URLParam(r, "id")

	var request statusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := handler.service.UpdateStatus(ctx, session,
		models.Child(request.Child), taskID, models.Frequency(request.Frequency), request.Completed)

	var notFound models.NotFoundError
	var invalid models.ValidationError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": invalid.Error()})
	default:
		slog.Error("updating task status", "task", taskID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task status"})
	}
}

// UploadCatalog replaces the session's task catalog from an uploaded CSV.
// Rejected uploads leave the previous catalog in force.
func (handler *ChecklistHandler) UploadCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSession(ctx)

	body, err := catalogPayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer body.Close()

	loaded, warnings, err := catalog.Load(body, session.Children)
	if err != nil {
		var invalid models.ValidationError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  invalid.Error(),
				"status": "previous catalog retained",
			})
			return
		}
		slog.Error("loading uploaded catalog", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load catalog"})
		return
	}

	if err := handler.service.ReplaceCatalog(ctx, session, loaded); err != nil {
		slog.Error("replacing catalog", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to replace catalog"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":    len(loaded.Tasks),
		"warnings": warnings,
	})
}

type resetRequest struct {
	Scope string `json:"scope"`
}

// ForceReset invalidates the daily or weekly watermark on demand, the
// sidebar "reset checklist" action.
func (handler *ChecklistHandler) ForceReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSession(ctx)

	var request resetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := handler.service.ForceReset(ctx, session, models.Frequency(request.Scope))
	var invalid models.ValidationError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": invalid.Error()})
	default:
		slog.Error("forcing reset", "scope", request.Scope, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reset"})
	}
}

// catalogPayload accepts either a multipart upload under "file" or a raw CSV
// request body.
func catalogPayload(r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New(`multipart upload must include a "file" part`)
		}
		return file, nil
	}
	return r.Body, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
