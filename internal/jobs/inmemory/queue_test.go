package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dvloznov/statement-importer/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ExportJob {
	t.Helper()
	var job *jobs.ExportJob
	require.Eventually(t, func() bool {
		var err error
		job, err = store.GetJob(context.Background(), jobID)
		return err == nil && job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestQueue_ProcessesJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, store)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Start(ctx, func(_ context.Context, job jobs.Job) error {
		job.(*jobs.ExportJob).Result = &jobs.ExportSummary{Uploaded: 3}
		return nil
	}))

	job := &jobs.ExportJob{SessionID: "s1"}
	require.NoError(t, q.PublishExport(ctx, job))
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, jobs.DefaultMaxRetries, job.MaxRetries)

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	require.NotNil(t, done.Result)
	assert.Equal(t, 3, done.Result.Uploaded)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
}

func TestQueue_RetriesThenFails(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, store)
	q.backoff = time.Millisecond
	defer q.Close()

	var calls int32
	ctx := context.Background()
	require.NoError(t, q.Start(ctx, func(context.Context, jobs.Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("notion unavailable")
	}))

	job := &jobs.ExportJob{SessionID: "s1", MaxRetries: 2}
	require.NoError(t, q.PublishExport(ctx, job))

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	assert.Equal(t, 2, failed.RetryCount)
	assert.Equal(t, "notion unavailable", failed.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueue_PermanentErrorIsNotRetried(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, store)
	q.backoff = time.Millisecond
	defer q.Close()

	var calls int32
	ctx := context.Background()
	require.NoError(t, q.Start(ctx, func(context.Context, jobs.Job) error {
		atomic.AddInt32(&calls, 1)
		return jobs.Permanent(errors.New("session not found"))
	}))

	job := &jobs.ExportJob{SessionID: "gone"}
	require.NoError(t, q.PublishExport(ctx, job))

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	assert.Zero(t, failed.RetryCount)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueue_Closed(t *testing.T) {
	q := NewQueue(1, nil)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.Error(t, q.PublishExport(context.Background(), &jobs.ExportJob{}))
	assert.Error(t, q.Start(context.Background(), nil))
}

func TestStore_ListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveJob(ctx, &jobs.ExportJob{
			JobID:     id,
			SessionID: map[bool]string{true: "s1", false: "s2"}[i < 2],
			Status:    jobs.JobStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.UpdateJobStatus(ctx, "b", jobs.JobStatusFailed, "boom"))

	all, err := store.ListJobs(ctx, jobs.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].JobID, "newest first")

	bySession, err := store.ListJobs(ctx, jobs.JobFilter{SessionID: "s1"})
	require.NoError(t, err)
	assert.Len(t, bySession, 2)

	failed, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].Error)

	page, err := store.ListJobs(ctx, jobs.JobFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].JobID)

	empty, err := store.ListJobs(ctx, jobs.JobFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_Errors(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.Error(t, store.SaveJob(ctx, &jobs.ExportJob{}))

	_, err := store.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, jobs.ErrJobNotFound)
	assert.ErrorIs(t, store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""), jobs.ErrJobNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	job := &jobs.ExportJob{JobID: "a", Result: &jobs.ExportSummary{Errors: []string{"x"}}}
	require.NoError(t, store.SaveJob(ctx, job))

	job.Result.Errors[0] = "mutated"
	got, err := store.GetJob(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Result.Errors[0])
}
