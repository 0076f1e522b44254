// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// job pairs a cron entry with the name it was registered under.
type job struct {
	id   cron.EntryID
	name string
}

// JobStatus describes a registered job for status reporting.
type JobStatus struct {
	Name string    `json:"name"`
	Next time.Time `json:"next"`
}

// Scheduler manages named cron jobs. Panics inside a job are recovered
// and logged so one bad run never takes down the process.
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobs            []job
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler that runs jobs in UTC.
func NewScheduler(logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}

	adapter := &cronLogger{log: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(adapter)),
		),
		logger:          logger,
		jobs:            make([]job, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// AddJob registers fn to run on the given cron spec. Jobs cannot be
// added once the scheduler has started.
func (s *Scheduler) AddJob(spec string, name string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	wrapped := func() {
		start := time.Now()
		s.logger.WithField("job", name).Debug("Scheduled job starting")

		fn()

		s.logger.WithFields(logrus.Fields{
			"job":      name,
			"duration": time.Since(start).String(),
		}).Info("Scheduled job finished")
	}

	entryID, err := s.cron.AddFunc(spec, wrapped)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs = append(s.jobs, job{id: entryID, name: name})
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": spec,
	}).Info("Job scheduled")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting for in-flight jobs up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("Scheduler stopped")
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest next fire time across all jobs, or the
// zero time when the scheduler is not running.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.id)
		if !entry.Valid() {
			continue
		}
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}

	return next
}

// Jobs returns the registered jobs and their next fire times.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.id)
		statuses = append(statuses, JobStatus{Name: j.name, Next: entry.Next})
	}

	return statuses
}

// cronLogger adapts logrus to the cron.Logger interface so recovered
// panics land in the structured log.
type cronLogger struct {
	log *logrus.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(cronFields(keysAndValues)).Debug(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(cronFields(keysAndValues)).Error(msg)
}

func cronFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
