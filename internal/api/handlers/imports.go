package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dvloznov/statement-importer/internal/api/middleware"
	bq "github.com/dvloznov/statement-importer/internal/infra/bigquery"
	"github.com/rs/zerolog"
)

// ImportHistory reads archived imports.
type ImportHistory interface {
	ListImports(ctx context.Context, limit int) ([]*bq.ImportRow, error)
	QueryTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*bq.TransactionRow, error)
}

// ImportsHandler serves the import archive.
type ImportsHandler struct {
	history ImportHistory
	log     zerolog.Logger
}

// NewImportsHandler creates a new imports handler. history may be nil when
// BigQuery is not configured.
func NewImportsHandler(history ImportHistory, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{history: history, log: log}
}

type importInfo struct {
	ImportID     string    `json:"import_id"`
	Filename     string    `json:"filename"`
	Bank         string    `json:"bank"`
	GCSURI       string    `json:"gcs_uri,omitempty"`
	Checksum     string    `json:"checksum_sha256"`
	Transactions int64     `json:"transactions"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type archivedTransaction struct {
	TransactionID string `json:"transaction_id"`
	ImportID      string `json:"import_id"`
	Date          string `json:"date,omitempty"`
	RawDate       string `json:"raw_date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	IsRecurring   bool   `json:"is_recurring"`
}

// ListImports handles GET /api/imports
func (h *ImportsHandler) ListImports(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import archive is not configured")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	rows, err := h.history.ListImports(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list imports")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list imports")
		return
	}

	out := make([]importInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, importInfo{
			ImportID:     row.ImportID,
			Filename:     row.Filename,
			Bank:         row.Bank,
			GCSURI:       row.GCSURI.StringVal,
			Checksum:     row.ChecksumSHA256,
			Transactions: row.TransactionCount,
			UploadedAt:   row.UploadTS,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imports": out,
		"count":   len(out),
	})
}

// ListTransactions handles GET /api/imports/transactions?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *ImportsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import archive is not configured")
		return
	}

	query := r.URL.Query()
	start, err := time.Parse("2006-01-02", query.Get("start_date"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", query.Get("end_date"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		middleware.WriteError(w, http.StatusBadRequest, "end_date is before start_date")
		return
	}

	rows, err := h.history.QueryTransactionsByDateRange(r.Context(), start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query archived transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query transactions")
		return
	}

	out := make([]archivedTransaction, 0, len(rows))
	for _, row := range rows {
		tx := archivedTransaction{
			TransactionID: row.TransactionID,
			ImportID:      row.ImportID,
			RawDate:       row.RawDate,
			Description:   row.Description,
			Type:          row.Direction,
			Category:      row.Category,
			IsRecurring:   row.IsRecurring,
		}
		if row.TransactionDate.Valid {
			tx.Date = row.TransactionDate.Date.String()
		}
		if row.Amount != nil {
			tx.Amount = row.Amount.FloatString(2)
		}
		out = append(out, tx)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": out,
		"count":        len(out),
	})
}
