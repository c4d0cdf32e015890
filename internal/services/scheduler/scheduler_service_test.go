package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestRegisterJob_Validation(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())

	err := s.RegisterJob("digest", "not a cron", func() error { return nil })
	assert.ErrorContains(t, err, "invalid schedule")

	require.NoError(t, s.RegisterJob("digest", "0 8 * * *", func() error { return nil }))

	err = s.RegisterJob("digest", "0 9 * * *", func() error { return nil })
	assert.ErrorContains(t, err, "already registered")
}

func TestStart_RequiresJobs(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())

	assert.ErrorContains(t, s.Start(), "no jobs registered")
	assert.False(t, s.IsRunning())
}

func TestStartStop(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())
	require.NoError(t, s.RegisterJob("digest", "0 8 * * *", func() error { return nil }))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "second start should fail")

	status, err := s.GetJobStatus("digest")
	require.NoError(t, err)
	assert.Equal(t, "0 8 * * *", status.Schedule)
	require.NotNil(t, status.NextRun)
	assert.Equal(t, 8, status.NextRun.Hour())
	assert.Nil(t, status.LastRun)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(), "stop is idempotent")
}

func TestTriggerJob_RecordsOutcome(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())

	runs := 0
	fail := true
	require.NoError(t, s.RegisterJob("digest", "0 8 * * *", func() error {
		runs++
		if fail {
			return errors.New("smtp unreachable")
		}
		return nil
	}))

	err := s.TriggerJob("digest")
	assert.EqualError(t, err, "smtp unreachable")

	status, err := s.GetJobStatus("digest")
	require.NoError(t, err)
	assert.Equal(t, "smtp unreachable", status.LastError)
	require.NotNil(t, status.LastRun)
	assert.False(t, status.IsRunning)

	fail = false
	require.NoError(t, s.TriggerJob("digest"))

	status, err = s.GetJobStatus("digest")
	require.NoError(t, err)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 2, runs)
}

func TestTriggerJob_RecoversPanic(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())
	require.NoError(t, s.RegisterJob("digest", "0 8 * * *", func() error {
		panic("boom")
	}))

	err := s.TriggerJob("digest")
	assert.EqualError(t, err, "panic: boom")

	status, err := s.GetJobStatus("digest")
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
}

func TestUnknownJob(t *testing.T) {
	s := NewService(arbor.NewNoOpLogger())

	_, err := s.GetJobStatus("missing")
	assert.ErrorContains(t, err, "not found")
	assert.ErrorContains(t, s.TriggerJob("missing"), "not found")
}
