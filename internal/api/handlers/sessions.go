package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dvloznov/statement-importer/internal/api/middleware"
	"github.com/dvloznov/statement-importer/internal/jobs"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/rs/zerolog"
)

// SessionsHandler handles review session endpoints.
type SessionsHandler struct {
	sessions  *session.Registry
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler. publisher may be nil,
// in which case exports are rejected.
func NewSessionsHandler(sessions *session.Registry, publisher jobs.Publisher, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, publisher: publisher, log: log}
}

type sessionInfo struct {
	ID           string    `json:"id"`
	Bank         string    `json:"bank"`
	Filename     string    `json:"filename"`
	CreatedAt    time.Time `json:"created_at"`
	Transactions int       `json:"transactions"`
	Deleted      int       `json:"deleted"`
}

// ListSessions handles GET /api/sessions
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	list := h.sessions.List()
	out := make([]sessionInfo, 0, len(list))
	for _, s := range list {
		out = append(out, sessionInfo{
			ID:           s.ID,
			Bank:         s.Bank,
			Filename:     s.Filename,
			CreatedAt:    s.CreatedAt,
			Transactions: len(s.Transactions()),
			Deleted:      len(s.Deleted()),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": out,
		"count":    len(out),
	})
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, s.View())
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.sessions.Delete(sessionID); err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/sessions/{id}/summary
func (h *SessionsHandler) Summary(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, s.Summary())
}

// UpdateTransaction handles PATCH /api/sessions/{id}/transactions/{txID}
func (h *SessionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request, sessionID, txID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	id, ok := parseTxID(w, txID)
	if !ok {
		return
	}

	var req struct {
		Category    *string `json:"category"`
		IsRecurring *bool   `json:"is_recurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == nil && req.IsRecurring == nil {
		middleware.WriteError(w, http.StatusBadRequest, "category or is_recurring is required")
		return
	}

	tx, err := s.Transaction(id)
	if req.Category != nil && err == nil {
		tx, err = s.SetCategory(id, *req.Category)
	}
	if req.IsRecurring != nil && err == nil {
		tx, err = s.SetRecurring(id, *req.IsRecurring)
	}
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /api/sessions/{id}/transactions/{txID}
func (h *SessionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, sessionID, txID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	id, ok := parseTxID(w, txID)
	if !ok {
		return
	}

	if err := s.Delete(id); err != nil {
		h.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreTransaction handles POST /api/sessions/{id}/transactions/{txID}/restore
func (h *SessionsHandler) RestoreTransaction(w http.ResponseWriter, r *http.Request, sessionID, txID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	id, ok := parseTxID(w, txID)
	if !ok {
		return
	}

	tx, err := s.Restore(id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Bulk handles POST /api/sessions/{id}/bulk
func (h *SessionsHandler) Bulk(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}

	var req struct {
		IDs         []int  `json:"ids"`
		Action      string `json:"action"`
		Category    string `json:"category"`
		IsRecurring *bool  `json:"is_recurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "ids is required")
		return
	}

	var affected int
	switch req.Action {
	case "delete":
		affected = s.DeleteMany(req.IDs)
	case "category":
		n, err := s.SetCategoryMany(req.IDs, req.Category)
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		affected = n
	case "recurring":
		if req.IsRecurring == nil {
			middleware.WriteError(w, http.StatusBadRequest, "is_recurring is required")
			return
		}
		affected = s.SetRecurringMany(req.IDs, *req.IsRecurring)
	default:
		middleware.WriteError(w, http.StatusBadRequest, "action must be one of delete, category, recurring")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]int{"affected": affected})
}

// Export handles POST /api/sessions/{id}/export
func (h *SessionsHandler) Export(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, ok := h.lookup(w, sessionID)
	if !ok {
		return
	}
	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Export is not available")
		return
	}

	var req struct {
		DryRun bool `json:"dry_run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job := &jobs.ExportJob{SessionID: s.ID, DryRun: req.DryRun}
	if err := h.publisher.PublishExport(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to enqueue export job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue export job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("session_id", s.ID).Msg("Export job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":     job.JobID,
		"session_id": s.ID,
		"status":     string(job.Status),
	})
}

func (h *SessionsHandler) lookup(w http.ResponseWriter, sessionID string) (*session.Session, bool) {
	s, err := h.sessions.Get(sessionID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}

func (h *SessionsHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrTransactionNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, session.ErrInvalidCategory):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Session update failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Session update failed")
	}
}

func parseTxID(w http.ResponseWriter, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return 0, false
	}
	return id, true
}
