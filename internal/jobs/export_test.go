package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/notionsync"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotion struct {
	failures int
	created  int
}

func (f *fakeNotion) CreatePage(context.Context, string, notionapi.Properties) (*notionapi.Page, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("rate limited")
	}
	f.created++
	return &notionapi.Page{ID: "page"}, nil
}

func (f *fakeNotion) QueryDatabase(context.Context, string, *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{}, nil
}

func exportSession() (*session.Registry, *session.Session) {
	reg := session.NewRegistry()
	s := session.New("Banco Falabella", "cartola.csv", []domain.Transaction{
		{ID: 1, ParsedTransaction: domain.ParsedTransaction{Date: "01/03/2024", Description: "NETFLIX", Amount: decimal.NewFromInt(9490), Type: domain.TxCharge}},
		{ID: 2, ParsedTransaction: domain.ParsedTransaction{Date: "02/03/2024", Description: "UNIMARC", Amount: decimal.NewFromInt(1000), Type: domain.TxCharge}},
	})
	reg.Put(s)
	return reg, s
}

func TestExportHandler(t *testing.T) {
	reg, s := exportSession()
	notion := &fakeNotion{}
	handler := NewExportHandler(reg, notionsync.NewUploader(notion, notionsync.Config{DatabaseID: "db"}))

	job := &ExportJob{JobID: "j1", SessionID: s.ID}
	require.NoError(t, handler(context.Background(), job))

	require.NotNil(t, job.Result)
	assert.Equal(t, 2, job.Result.Uploaded)
	assert.Equal(t, 2, notion.created)
}

func TestExportHandler_DryRun(t *testing.T) {
	reg, s := exportSession()
	notion := &fakeNotion{}
	handler := NewExportHandler(reg, notionsync.NewUploader(notion, notionsync.Config{DatabaseID: "db"}))

	job := &ExportJob{JobID: "j1", SessionID: s.ID, DryRun: true}
	require.NoError(t, handler(context.Background(), job))
	assert.Equal(t, 2, job.Result.Uploaded)
	assert.Zero(t, notion.created)
}

func TestExportHandler_PartialFailureIsRetryable(t *testing.T) {
	reg, s := exportSession()
	notion := &fakeNotion{failures: 1}
	handler := NewExportHandler(reg, notionsync.NewUploader(notion, notionsync.Config{DatabaseID: "db"}))

	job := &ExportJob{JobID: "j1", SessionID: s.ID}
	err := handler(context.Background(), job)
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 1, job.Result.Failed)
	assert.Len(t, job.Result.Errors, 1)
}

func TestExportHandler_PermanentErrors(t *testing.T) {
	reg, s := exportSession()

	t.Run("unknown session", func(t *testing.T) {
		handler := NewExportHandler(reg, notionsync.NewUploader(&fakeNotion{}, notionsync.Config{DatabaseID: "db"}))
		err := handler(context.Background(), &ExportJob{SessionID: "missing"})
		assert.True(t, IsPermanent(err))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("notion not configured", func(t *testing.T) {
		handler := NewExportHandler(reg, notionsync.NewUploader(nil, notionsync.Config{}))
		err := handler(context.Background(), &ExportJob{SessionID: s.ID})
		assert.True(t, IsPermanent(err))
		assert.ErrorIs(t, err, notionsync.ErrNotConfigured)
	})

	t.Run("nothing left to upload", func(t *testing.T) {
		empty := session.New("Banco Santander", "x.xls", nil)
		reg.Put(empty)
		handler := NewExportHandler(reg, notionsync.NewUploader(&fakeNotion{}, notionsync.Config{DatabaseID: "db"}))
		err := handler(context.Background(), &ExportJob{SessionID: empty.ID})
		assert.True(t, IsPermanent(err))
	})
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	base := errors.New("x")
	err := Permanent(base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "x", err.Error())
	assert.False(t, IsPermanent(base))
}
