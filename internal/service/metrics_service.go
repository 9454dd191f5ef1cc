package service

import (
	"context"
	"fmt"

	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type MetricsServicer interface {
	GetJobMetrics(context.Context, int64) (*JobReport, error)
	ListJobMetrics(context.Context) ([]*JobReport, error)
}

// JobReport is the metrics of one job computed over a snapshot of its
// history.
type JobReport struct {
	Job     *store.Job
	Metrics *metrics.JobMetrics
}

type MetricsService struct {
	jobStore  JobReader
	runStore  RunReader
	stepStore StepReader
	clock     clockwork.Clock
}

func NewMetricsService(
	jobStore JobReader,
	runStore RunReader,
	stepStore StepReader,
	clock clockwork.Clock,
) *MetricsService {
	return &MetricsService{jobStore, runStore, stepStore, clock}
}

func (s *MetricsService) GetJobMetrics(ctx context.Context, jobID int64) (*JobReport, error) {
	j, err := s.jobStore.ReadJobByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return s.report(ctx, j)
}

// ListJobMetrics computes the metrics of every job, at most
// max_concurrent_jobs at a time. Reports are in the order jobs are listed.
func (s *MetricsService) ListJobMetrics(ctx context.Context) ([]*JobReport, error) {
	jobs, err := s.jobStore.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*JobReport, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(max(1, internal.CurrentConfiguration().MaxConcurrentJobs)))
	for i, j := range jobs {
		g.Go(func() error {
			report, err := s.report(gctx, j)
			if err != nil {
				return fmt.Errorf("metrics for job %q: %w", j.Name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MetricsService) report(ctx context.Context, j *store.Job) (*JobReport, error) {
	records, err := s.loadRecords(ctx, j.JobID)
	if err != nil {
		return nil, err
	}
	return &JobReport{Job: j, Metrics: metrics.NewJobMetrics(records, s.clock)}, nil
}

func (s *MetricsService) loadRecords(ctx context.Context, jobID int64) ([]metrics.Record, error) {
	runs, err := s.runStore.ListJobRuns(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	steps, err := s.stepStore.ListJobSteps(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return recordsFromRuns(runs, steps), nil
}
