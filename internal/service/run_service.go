package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/jonboulle/clockwork"
)

// RunService enforces run retention: runs that ended longer ago than
// run_retention_hours, and runs beyond the max_runs_per_job most recent of
// each job, are deleted.
type RunService struct {
	jobStore  JobReader
	runStore  RunPruner
	scheduler gocron.Scheduler
	clock     clockwork.Clock

	mu       sync.Mutex
	jobID    uuid.UUID
	schedule string
}

func NewRunService(
	jobStore JobReader,
	runStore RunPruner,
	scheduler gocron.Scheduler,
	clock clockwork.Clock,
) *RunService {
	return &RunService{
		jobStore:  jobStore,
		runStore:  runStore,
		scheduler: scheduler,
		clock:     clock,
	}
}

// PruneRuns applies the retention limits of config once and returns the
// number of runs deleted.
func (s *RunService) PruneRuns(ctx context.Context, config *internal.Configuration) (int64, error) {
	var deleted int64

	if retention := config.RunRetentionHours.Duration(); retention > 0 {
		n, err := s.runStore.DeleteRunsEndedBefore(ctx, s.clock.Now().Add(-retention))
		if err != nil {
			return deleted, fmt.Errorf("delete expired runs: %w", err)
		}
		deleted += n
	}

	if config.MaxRunsPerJob > 0 {
		jobs, err := s.jobStore.ListJobs(ctx)
		if err != nil {
			return deleted, err
		}
		for _, j := range jobs {
			n, err := s.runStore.DeleteJobRunsBeyond(ctx, j.JobID, config.MaxRunsPerJob)
			if err != nil {
				return deleted, fmt.Errorf("delete runs of job %q: %w", j.Name, err)
			}
			deleted += n
		}
	}

	return deleted, nil
}

// ScheduleRetention runs PruneRuns on the retention_schedule cron expression
// with the configuration in effect at each run. Calling it again with a new
// schedule replaces the previous one.
func (s *RunService) ScheduleRetention(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil || schedule == s.schedule {
		return nil
	}

	definition := gocron.CronJob(schedule, false)
	task := gocron.NewTask(s.pruneTask)

	var (
		job gocron.Job
		err error
	)
	if s.schedule == "" {
		job, err = s.scheduler.NewJob(definition, task, gocron.WithName("run-retention"))
	} else {
		job, err = s.scheduler.Update(s.jobID, definition, task, gocron.WithName("run-retention"))
	}
	if err != nil {
		return fmt.Errorf("error scheduling run retention: %w", err)
	}

	s.jobID = job.ID()
	s.schedule = schedule
	slog.Info("retention: scheduled", "schedule", schedule)
	return nil
}

func (s *RunService) pruneTask() {
	deleted, err := s.PruneRuns(context.Background(), internal.CurrentConfiguration())
	if err != nil {
		slog.Error("retention: prune failed", "err", err)
		return
	}
	slog.Info("retention: runs pruned", "deleted", deleted)
}
