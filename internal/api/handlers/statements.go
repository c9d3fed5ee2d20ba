package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/dvloznov/statement-importer/internal/aiclassify"
	"github.com/dvloznov/statement-importer/internal/api/middleware"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/pipeline"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/rs/zerolog"
)

// MaxUploadSize caps statement uploads.
const MaxUploadSize = 10 << 20

// Importer runs the import pipeline over one file.
type Importer interface {
	Import(ctx context.Context, filename string, data []byte) (*pipeline.ImportState, error)
}

// StatementsHandler handles statement uploads.
type StatementsHandler struct {
	importer Importer
	log      zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(importer Importer, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{importer: importer, log: log}
}

type uploadResponse struct {
	Session      session.View       `json:"session"`
	Result       domain.ParseResult `json:"result"`
	AI           aiclassify.Outcome `json:"ai"`
	ArchiveURI   string             `json:"archive_uri,omitempty"`
	ArchiveError string             `json:"archive_error,omitempty"`
}

type rejectedResponse struct {
	Error        string             `json:"error"`
	DetectedBank string             `json:"detected_bank,omitempty"`
	Result       domain.ParseResult `json:"result"`
}

// Upload handles POST /api/statements
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MiB limit")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "Expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	filename := filepath.Base(header.Filename)
	state, err := h.importer.Import(r.Context(), filename, data)
	if errors.Is(err, pipeline.ErrStatementRejected) {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, rejectedResponse{
			Error:        state.Result.Error,
			DetectedBank: state.Result.DetectedBank,
			Result:       state.Result,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("Import failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Import failed")
		return
	}

	resp := uploadResponse{
		Session:    state.Session.View(),
		Result:     state.Result,
		AI:         state.AI,
		ArchiveURI: state.ArchiveURI,
	}
	if state.AI.Err != nil {
		h.log.Warn().Err(state.AI.Err).Msg("AI classification skipped")
	}
	if state.ArchiveErr != nil {
		resp.ArchiveError = state.ArchiveErr.Error()
	}

	middleware.WriteJSON(w, http.StatusCreated, resp)
}
