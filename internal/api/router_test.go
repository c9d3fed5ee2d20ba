package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/statement-importer/internal/categorize"
	bq "github.com/dvloznov/statement-importer/internal/infra/bigquery"
	"github.com/dvloznov/statement-importer/internal/jobs/inmemory"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/dvloznov/statement-importer/internal/pipeline"
	"github.com/dvloznov/statement-importer/internal/recurring"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/dvloznov/statement-importer/internal/statement"
	"github.com/dvloznov/statement-importer/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementCSV = "Fecha;Descripción;Cargo;Abono\n" +
	"20/03/2024;NETFLIX.COM;9.490;\n" +
	"05/03/2024;XYZ COMERCIO 123;12.000;\n" +
	"10/03/2024;REMUNERACION ACME;;1.500.000\n"

type mockHistory struct {
	ListImportsFunc                  func(ctx context.Context, limit int) ([]*bq.ImportRow, error)
	QueryTransactionsByDateRangeFunc func(ctx context.Context, start, end time.Time) ([]*bq.TransactionRow, error)
}

func (m *mockHistory) ListImports(ctx context.Context, limit int) ([]*bq.ImportRow, error) {
	return m.ListImportsFunc(ctx, limit)
}

func (m *mockHistory) QueryTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*bq.TransactionRow, error) {
	return m.QueryTransactionsByDateRangeFunc(ctx, start, end)
}

type testServer struct {
	handler  http.Handler
	sessions *session.Registry
	queue    *inmemory.Queue
}

func newTestServer(t *testing.T, deps Deps) *testServer {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	store := templates.NewMemoryStore()
	engine := categorize.NewEngine(store)
	sessions := session.NewRegistry()
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, jobStore)
	t.Cleanup(func() { queue.Close() })

	deps.Importer = &pipeline.Importer{
		Parser:    statement.NewParser(nil, log),
		Suggester: engine,
		Detector:  recurring.Detector{},
		Sessions:  sessions,
	}
	deps.Sessions = sessions
	deps.Templates = store
	deps.Engine = engine
	deps.Publisher = queue
	deps.JobStore = jobStore
	deps.Log = log

	return &testServer{handler: NewRouter(deps), sessions: sessions, queue: queue}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/statements", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type uploadBody struct {
	Session struct {
		ID           string `json:"id"`
		Bank         string `json:"bank"`
		Transactions []struct {
			ID               int    `json:"id"`
			Description      string `json:"description"`
			SelectedCategory string `json:"selected_category"`
			IsRecurring      bool   `json:"is_recurring"`
		} `json:"transactions"`
	} `json:"session"`
	Result struct {
		Success bool `json:"success"`
	} `json:"result"`
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Deps{AuthToken: "secret"})
	rec := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, Deps{AuthToken: "secret"})
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/sessions", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatementReviewFlow(t *testing.T) {
	srv := newTestServer(t, Deps{})

	rec := srv.upload(t, "cartola.csv", statementCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var up uploadBody
	decode(t, rec, &up)
	assert.True(t, up.Result.Success)
	assert.Equal(t, "Banco Falabella", up.Session.Bank)
	require.Len(t, up.Session.Transactions, 3)
	assert.Equal(t, "XYZ COMERCIO 123", up.Session.Transactions[0].Description)
	assert.Equal(t, 2, up.Session.Transactions[0].ID)

	base := "/api/sessions/" + up.Session.ID

	t.Run("list", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/sessions", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Count int `json:"count"`
		}
		decode(t, rec, &body)
		assert.Equal(t, 1, body.Count)
	})

	t.Run("set category", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, base+"/transactions/2", `{"category":"groceries","is_recurring":true}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"selected_category":"Groceries"`)
		assert.Contains(t, rec.Body.String(), `"is_recurring":true`)
	})

	t.Run("invalid category", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, base+"/transactions/2", `{"category":"Yachts"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPatch, base+"/transactions/99", `{"is_recurring":true}`).Code)
		assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodDelete, base+"/transactions/abc", "").Code)
	})

	t.Run("delete and restore", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, base+"/transactions/1", "").Code)
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, base+"/transactions/1", "").Code)

		s, err := srv.sessions.Get(up.Session.ID)
		require.NoError(t, err)
		assert.Len(t, s.Transactions(), 2)
		assert.Len(t, s.Deleted(), 1)

		rec := srv.do(t, http.MethodPost, base+"/transactions/1/restore", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, s.Transactions(), 3)
	})

	t.Run("bulk", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, base+"/bulk", `{"ids":[1,2,3,42],"action":"recurring","is_recurring":false}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"affected":3}`, rec.Body.String())

		rec = srv.do(t, http.MethodPost, base+"/bulk", `{"ids":[1],"action":"category","category":"Nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = srv.do(t, http.MethodPost, base+"/bulk", `{"ids":[1],"action":"explode"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("summary", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, base+"/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var sum session.Summary
		decode(t, rec, &sum)
		assert.Equal(t, 3, sum.Transactions)
		assert.Equal(t, "1500000", sum.TotalCredits.String())
	})

	t.Run("export", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, base+"/export", `{"dry_run":true}`)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		var body map[string]string
		decode(t, rec, &body)
		assert.Equal(t, "pending", body["status"])

		rec = srv.do(t, http.MethodGet, "/api/jobs/"+body["job_id"], "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"dry_run":true`)

		rec = srv.do(t, http.MethodGet, "/api/jobs?session_id="+up.Session.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
	})

	t.Run("delete session", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, base, "").Code)
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, base, "").Code)
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPost, base+"/export", "").Code)
	})
}

func TestUploadRejected(t *testing.T) {
	srv := newTestServer(t, Deps{})

	rec := srv.upload(t, "notes.txt", "hello")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "format not recognized")
	assert.Empty(t, srv.sessions.List())

	req := httptest.NewRequest(http.MethodPost, "/api/statements", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplates(t *testing.T) {
	srv := newTestServer(t, Deps{})

	rec := srv.do(t, http.MethodPost, "/api/templates",
		`{"name":"work","rules":[{"keywords":["acme"],"category":"work tools","confidence":"High"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved struct {
		ID    string `json:"id"`
		Rules []struct {
			Category string `json:"category"`
		} `json:"rules"`
	}
	decode(t, rec, &saved)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Work Tools", saved.Rules[0].Category)

	rec = srv.do(t, http.MethodPost, "/api/suggest", `{"description":"Pago ACME","type":"cargo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"Work Tools"`)

	rec = srv.do(t, http.MethodGet, "/api/templates", "")
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = srv.do(t, http.MethodPost, "/api/templates", `{"rules":[{"keywords":["x"],"category":"Yachts","confidence":"high"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/api/templates/"+saved.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/api/templates/"+saved.ID, "").Code)
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, Deps{})

	rec := srv.do(t, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":23`)

	rec = srv.do(t, http.MethodGet, "/api/categories?type=charge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"Salary"`)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/categories?type=refund", "").Code)

	rec = srv.do(t, http.MethodPost, "/api/suggest", `{"description":"NETFLIX.COM"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"Streaming","confidence":"high","is_recurring":true}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/suggest", `{"description":"  "}`).Code)
}

func TestJobs_NotFound(t *testing.T) {
	srv := newTestServer(t, Deps{})
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/jobs/missing", "").Code)
}

func TestImports(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		srv := newTestServer(t, Deps{})
		assert.Equal(t, http.StatusServiceUnavailable, srv.do(t, http.MethodGet, "/api/imports", "").Code)
	})

	history := &mockHistory{
		ListImportsFunc: func(_ context.Context, limit int) ([]*bq.ImportRow, error) {
			assert.Equal(t, 5, limit)
			return []*bq.ImportRow{{
				ImportID:         "imp-1",
				Filename:         "cartola.xlsx",
				Bank:             "Banco Falabella",
				GCSURI:           bigquery.NullString{StringVal: "gs://b/cartola.xlsx", Valid: true},
				TransactionCount: 3,
			}}, nil
		},
		QueryTransactionsByDateRangeFunc: func(_ context.Context, start, end time.Time) ([]*bq.TransactionRow, error) {
			assert.Equal(t, "2024-03-01", start.Format("2006-01-02"))
			assert.Equal(t, "2024-03-31", end.Format("2006-01-02"))
			return []*bq.TransactionRow{{
				TransactionID:   "t1",
				ImportID:        "imp-1",
				TransactionDate: bigquery.NullDate{Date: civil.Date{Year: 2024, Month: time.March, Day: 20}, Valid: true},
				RawDate:         "20/03/2024",
				Description:     "NETFLIX.COM",
				Amount:          big.NewRat(18981, 2),
				Direction:       "charge",
				Category:        "Streaming",
			}}, nil
		},
	}
	srv := newTestServer(t, Deps{History: history})

	rec := srv.do(t, http.MethodGet, "/api/imports?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"gcs_uri":"gs://b/cartola.xlsx"`)

	rec = srv.do(t, http.MethodGet, "/api/imports/transactions?start_date=2024-03-01&end_date=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2024-03-20"`)
	assert.Contains(t, rec.Body.String(), `"amount":"9490.50"`)

	assert.Equal(t, http.StatusBadRequest,
		srv.do(t, http.MethodGet, "/api/imports/transactions?start_date=2024-03-31&end_date=2024-03-01", "").Code)

	history.ListImportsFunc = func(context.Context, int) ([]*bq.ImportRow, error) {
		return nil, errors.New("quota")
	}
	assert.Equal(t, http.StatusInternalServerError, srv.do(t, http.MethodGet, "/api/imports", "").Code)
}
