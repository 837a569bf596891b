package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"cleanroster/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     atomic.Int32
}

func (j *countingJob) Name() string       { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }

func (j *countingJob) Execute(ctx context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&countingJob{name: "hourly", schedule: Hourly}))
	require.NoError(t, scheduler.AddJob(&countingJob{name: "daily", schedule: Daily}))
	assert.Equal(t, 2, scheduler.GetJobCount())

	err := scheduler.AddJob(&countingJob{name: "weekly", schedule: Schedule(42)})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, 2, scheduler.GetJobCount())
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.NoError(t, scheduler.Stop(context.Background()))
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	require.NoError(t, scheduler.AddJob(&countingJob{name: "daily", schedule: Daily}))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_TriggerJobByName(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &countingJob{name: "snapshot", schedule: Daily}
	require.NoError(t, scheduler.AddJob(job))

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "snapshot"))
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	err := scheduler.TriggerJobByName(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
