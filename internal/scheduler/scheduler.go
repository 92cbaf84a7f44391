package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	// 00:00 UTC every day
	Daily Schedule = iota
	// 00:00 UTC every Monday
	Weekly
	// 06:00 UTC every day
	DailyMorning
)

// Job is a task run by the scheduler. Execute receives a context cancelled on
// shutdown.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	logger    ports.LoggerPort
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService(logger ports.LoggerPort) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make([]Job, 0),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) executeJob(ctx context.Context, job Job) {
	s.logger.Info("Executing scheduled job", map[string]interface{}{"job": job.Name()})
	if err := job.Execute(ctx); err != nil {
		s.logger.Error("Job execution failed", map[string]interface{}{
			"job":   job.Name(),
			"error": err.Error(),
		})
		return
	}
	s.logger.Info("Job execution completed", map[string]interface{}{"job": job.Name()})
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := func() { s.executeJob(s.ctx, job) }

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("00:00").Do(run)
	case Weekly:
		_, err = s.scheduler.Every(1).Week().Monday().At("00:00").Do(run)
	case DailyMorning:
		_, err = s.scheduler.Every(1).Day().At("06:00").Do(run)
	default:
		err = fmt.Errorf("unknown schedule %d", job.Schedule())
	}
	if err != nil {
		s.logger.Error("Failed to register job", map[string]interface{}{
			"job":   job.Name(),
			"error": err.Error(),
		})
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}

	s.jobs = append(s.jobs, job)
	s.logger.Info("Job registered", map[string]interface{}{"job": job.Name()})
	return nil
}

func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || len(s.jobs) == 0 {
		return
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		s.logger.Info("Job scheduled", map[string]interface{}{"next_run": job.NextRun()})
	}
}

func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false
	s.logger.Info("Scheduler stopped", nil)
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// RunNow executes the named job synchronously, outside its schedule.
func (s *SchedulerService) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var target Job
	for _, job := range s.jobs {
		if job.Name() == name {
			target = job
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return fmt.Errorf("job not found: %s", name)
	}
	return target.Execute(ctx)
}
