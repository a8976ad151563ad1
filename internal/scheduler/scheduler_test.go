package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/store"
)

type recordedJob struct {
	ran bool
	ctx context.Context
	err error
}

func (j *recordedJob) Name() string { return "recorded" }

func (j *recordedJob) Run(ctx context.Context) error {
	j.ran = true
	j.ctx = ctx
	return j.err
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	assert.Error(t, s.AddJob("not a schedule", &recordedJob{}))
}

func TestAddJob_AcceptsDescriptors(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@daily", &recordedJob{}))
	require.NoError(t, s.AddJob("@every 30s", &recordedJob{}))
	require.NoError(t, s.AddJob("0 */5 * * * *", &recordedJob{}))
}

func TestRunNow_PassesCallerContext(t *testing.T) {
	s := New(zerolog.Nop())

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	job := &recordedJob{}
	require.NoError(t, s.RunNow(ctx, job))

	assert.True(t, job.ran)
	assert.Equal(t, "marker", job.ctx.Value(key{}))
}

func TestRunNow_PropagatesJobError(t *testing.T) {
	s := New(zerolog.Nop())

	boom := errors.New("boom")
	err := s.RunNow(context.Background(), &recordedJob{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestHealthCheckJob_NilDBCountsStore(t *testing.T) {
	job := NewHealthCheckJob(nil, store.NewInlineStore(), zerolog.Nop())
	assert.NoError(t, job.Run(context.Background()))
}
