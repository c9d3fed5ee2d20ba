package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dvloznov/statement-importer/internal/api/middleware"
	"github.com/dvloznov/statement-importer/internal/categorize"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/recurring"
	"github.com/rs/zerolog"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	engine *categorize.Engine
	log    zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(engine *categorize.Engine, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{engine: engine, log: log}
}

// ListCategories handles GET /api/categories. The optional type query
// parameter restricts the list to the categories admissible for it.
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories()
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, ok := domain.ParseTxType(strings.ToLower(raw))
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "type must be charge or credit")
			return
		}
		categories = domain.AdmissibleCategories(t)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

type suggestResponse struct {
	categorize.Suggestion
	IsRecurring bool `json:"is_recurring"`
}

// Suggest handles POST /api/suggest
func (h *CategoriesHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	t := domain.TxCharge
	if req.Type != "" {
		parsed, ok := domain.ParseTxType(strings.ToLower(req.Type))
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "type must be charge or credit")
			return
		}
		t = parsed
	}

	middleware.WriteJSON(w, http.StatusOK, suggestResponse{
		Suggestion:  h.engine.Suggest(req.Description, t),
		IsRecurring: recurring.IsRecurring(req.Description),
	})
}
