package scheduler

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAddJobRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(testLogger())

	err := s.AddJob("not a cron spec", "broken", func() {})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestAddJobRejectsWhileRunning(t *testing.T) {
	s := NewScheduler(testLogger())
	require.NoError(t, s.AddJob("0 6 * * 2", "calibration", func() {}))
	require.NoError(t, s.Start())
	defer s.Stop()

	err := s.AddJob("0 7 * * 3", "late", func() {})
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(testLogger())

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jobs")
}

func TestStartTwiceFails(t *testing.T) {
	s := NewScheduler(testLogger())
	require.NoError(t, s.AddJob("0 6 * * 2", "calibration", func() {}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestSchedulerRunsJob(t *testing.T) {
	s := NewScheduler(testLogger())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("@every 1s", "tick", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
}

func TestSchedulerRecoversFromPanic(t *testing.T) {
	s := NewScheduler(testLogger())

	fired := make(chan struct{}, 4)
	require.NoError(t, s.AddJob("@every 1s", "flaky", func() {
		fired <- struct{}{}
		panic("settlement feed exploded")
	}))
	require.NoError(t, s.Start())
	defer s.Stop()

	// The job must keep firing after panicking.
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(4 * time.Second):
			t.Fatalf("job stopped firing after %d runs", i)
		}
	}

	assert.True(t, s.IsRunning())
}

func TestNextRunLifecycle(t *testing.T) {
	s := NewScheduler(testLogger())
	require.NoError(t, s.AddJob("0 6 * * 2", "calibration", func() {}))

	assert.True(t, s.NextRun().IsZero(), "next run should be zero before start")

	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now().Add(-time.Second)))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "calibration", jobs[0].Name)
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewScheduler(testLogger())
	require.NoError(t, s.AddJob("0 6 * * 2", "calibration", func() {}))
	require.NoError(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}
