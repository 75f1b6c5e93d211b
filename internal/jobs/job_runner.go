package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/service"
)

const (
	JobSendCheckInReminders = "send-check-in-reminders"

	defaultJobTimeout = 5 * time.Minute
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Reminders service.ReminderService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services) *JobRunner {
	return &JobRunner{services: services, timeout: defaultJobTimeout}
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start).String())
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start).String())
	return nil
}

// Jobs lists the names accepted by RunByName.
func (jr *JobRunner) Jobs() []string {
	names := make([]string, 0, len(jr.registry()))
	for name := range jr.registry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunByName runs one job immediately (for manual execution)
func (jr *JobRunner) RunByName(name string) error {
	job, ok := jr.registry()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job()
}

func (jr *JobRunner) registry() map[string]func() error {
	return map[string]func() error{
		JobSendCheckInReminders: jr.SendCheckInReminders,
	}
}
