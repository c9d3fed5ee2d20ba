// Package api assembles the HTTP routes and middleware of the review server.
package api

import (
	"net/http"
	"time"

	"github.com/dvloznov/statement-importer/internal/api/handlers"
	"github.com/dvloznov/statement-importer/internal/api/middleware"
	"github.com/dvloznov/statement-importer/internal/categorize"
	"github.com/dvloznov/statement-importer/internal/jobs"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/dvloznov/statement-importer/internal/templates"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the routes are served from. Publisher and
// History may be nil.
type Deps struct {
	Importer  handlers.Importer
	Sessions  *session.Registry
	Templates templates.Store
	Engine    *categorize.Engine
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	History   handlers.ImportHistory
	AuthToken string
	Log       zerolog.Logger
}

// NewRouter builds the HTTP handler with every route and the middleware chain.
func NewRouter(d Deps) http.Handler {
	statementsHandler := handlers.NewStatementsHandler(d.Importer, d.Log)
	sessionsHandler := handlers.NewSessionsHandler(d.Sessions, d.Publisher, d.Log)
	templatesHandler := handlers.NewTemplatesHandler(d.Templates, d.Log)
	categoriesHandler := handlers.NewCategoriesHandler(d.Engine, d.Log)
	jobsHandler := handlers.NewJobsHandler(d.JobStore, d.Log)
	importsHandler := handlers.NewImportsHandler(d.History, d.Log)

	mux := http.NewServeMux()

	// Statements
	mux.HandleFunc("POST /api/statements", statementsHandler.Upload)

	// Sessions
	mux.HandleFunc("GET /api/sessions", sessionsHandler.ListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.GetSession(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.DeleteSession(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("GET /api/sessions/{id}/summary", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.Summary(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("PATCH /api/sessions/{id}/transactions/{txID}", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.UpdateTransaction(w, r, r.PathValue("id"), r.PathValue("txID"))
	})
	mux.HandleFunc("DELETE /api/sessions/{id}/transactions/{txID}", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.DeleteTransaction(w, r, r.PathValue("id"), r.PathValue("txID"))
	})
	mux.HandleFunc("POST /api/sessions/{id}/transactions/{txID}/restore", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.RestoreTransaction(w, r, r.PathValue("id"), r.PathValue("txID"))
	})
	mux.HandleFunc("POST /api/sessions/{id}/bulk", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.Bulk(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /api/sessions/{id}/export", func(w http.ResponseWriter, r *http.Request) {
		sessionsHandler.Export(w, r, r.PathValue("id"))
	})

	// Templates
	mux.HandleFunc("GET /api/templates", templatesHandler.ListTemplates)
	mux.HandleFunc("POST /api/templates", templatesHandler.SaveTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", func(w http.ResponseWriter, r *http.Request) {
		templatesHandler.DeleteTemplate(w, r, r.PathValue("id"))
	})

	// Categories
	mux.HandleFunc("GET /api/categories", categoriesHandler.ListCategories)
	mux.HandleFunc("POST /api/suggest", categoriesHandler.Suggest)

	// Jobs
	mux.HandleFunc("GET /api/jobs", jobsHandler.ListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		jobsHandler.GetJob(w, r, r.PathValue("id"))
	})

	// Import archive
	mux.HandleFunc("GET /api/imports", importsHandler.ListImports)
	mux.HandleFunc("GET /api/imports/transactions", importsHandler.ListTransactions)

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// RequestID runs before Logger so request logs carry the ID.
	return middleware.Recovery(d.Log)(
		middleware.RequestID(
			middleware.Logger(d.Log)(
				middleware.CORS(
					middleware.Auth(d.AuthToken)(mux),
				),
			),
		),
	)
}
