package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvloznov/statement-importer/internal/api/middleware"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/templates"
	"github.com/rs/zerolog"
)

// TemplatesHandler handles category template endpoints.
type TemplatesHandler struct {
	store templates.Store
	log   zerolog.Logger
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(store templates.Store, log zerolog.Logger) *TemplatesHandler {
	return &TemplatesHandler{store: store, log: log}
}

// ListTemplates handles GET /api/templates
func (h *TemplatesHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list := h.store.Templates()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"templates": list,
		"count":     len(list),
	})
}

// SaveTemplate handles POST /api/templates. A body carrying the ID of an
// existing template replaces it.
func (h *TemplatesHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl domain.CategoryTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := templates.Upsert(r.Context(), h.store, tpl)
	if errors.Is(err, domain.ErrInvalidTemplate) {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to save template")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	h.log.Info().Str("template_id", saved.ID).Int("rules", len(saved.Rules)).Msg("Template saved")
	middleware.WriteJSON(w, http.StatusCreated, saved)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *TemplatesHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request, templateID string) {
	err := templates.Delete(r.Context(), h.store, templateID)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("template_id", templateID).Msg("Failed to delete template")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
