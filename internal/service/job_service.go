package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haatos/simple-ci-metrics/internal/history"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/jonboulle/clockwork"
)

type JobServicer interface {
	CreateJob(context.Context, string, string) (*store.Job, error)
	GetJobByID(context.Context, int64) (*store.Job, error)
	GetJobByName(context.Context, string) (*store.Job, error)
	ListJobs(context.Context) ([]*store.Job, error)
	DeleteJob(context.Context, int64) error
	StartRun(context.Context, int64, *time.Time) (*store.Run, error)
	CompleteRun(context.Context, int64, int64, store.RunStatus, *time.Time) (*store.Run, error)
	AppendRunStep(context.Context, int64, int64, string, store.StepKind, *time.Time) (*store.Step, error)
	ListJobRuns(context.Context, int64, int64) ([]store.Run, error)
	ImportHistory(context.Context, *history.File) (*store.Job, int, error)
	ExportHistory(context.Context, int64) (*history.File, error)
}

// JobService records the build history that producers push: jobs, their
// runs and the step trace of each run.
type JobService struct {
	jobStore  JobStore
	runStore  RunStore
	stepStore StepStore
	clock     clockwork.Clock
}

func NewJobService(
	jobStore JobStore,
	runStore RunStore,
	stepStore StepStore,
	clock clockwork.Clock,
) *JobService {
	return &JobService{jobStore, runStore, stepStore, clock}
}

func (s *JobService) CreateJob(ctx context.Context, name, description string) (*store.Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Message: "job name is required"}
	}
	return s.jobStore.CreateJob(ctx, name, strings.TrimSpace(description))
}

func (s *JobService) GetJobByID(ctx context.Context, id int64) (*store.Job, error) {
	j, err := s.jobStore.ReadJobByID(ctx, id)
	return j, notFound(err, ErrJobNotFound)
}

func (s *JobService) GetJobByName(ctx context.Context, name string) (*store.Job, error) {
	j, err := s.jobStore.ReadJobByName(ctx, name)
	return j, notFound(err, ErrJobNotFound)
}

func (s *JobService) ListJobs(ctx context.Context) ([]*store.Job, error) {
	return s.jobStore.ListJobs(ctx)
}

func (s *JobService) DeleteJob(ctx context.Context, id int64) error {
	return notFound(s.jobStore.DeleteJob(ctx, id), ErrJobNotFound)
}

// StartRun records a new run of a job. A nil startedOn means now.
func (s *JobService) StartRun(ctx context.Context, jobID int64, startedOn *time.Time) (*store.Run, error) {
	if _, err := s.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.runStore.CreateRun(ctx, jobID, store.StatusRunning, s.timeOrNow(startedOn), nil)
}

// CompleteRun moves a running run to its final status. A run is completed
// exactly once.
func (s *JobService) CompleteRun(
	ctx context.Context,
	jobID, runID int64,
	status store.RunStatus,
	endedOn *time.Time,
) (*store.Run, error) {
	if !status.Final() {
		return nil, ErrInvalidOutcome
	}
	r, err := s.getJobRun(ctx, jobID, runID)
	if err != nil {
		return nil, err
	}
	if r.Complete() {
		return nil, ErrRunAlreadyComplete
	}

	ended := s.timeOrNow(endedOn)
	if ended.Before(r.StartedOn.Time) {
		return nil, ValidationError{Message: "run cannot end before it started"}
	}
	if err := s.runStore.UpdateRunEndedOn(ctx, r.RunID, status, ended); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunAlreadyComplete
		}
		return nil, err
	}

	endedTs := store.NewTimestamp(ended)
	r.Status = status
	r.EndedOn = &endedTs
	return r, nil
}

// AppendRunStep adds the next node to the step trace of a running run.
func (s *JobService) AppendRunStep(
	ctx context.Context,
	jobID, runID int64,
	name string,
	kind store.StepKind,
	startedOn *time.Time,
) (*store.Step, error) {
	if kind == "" {
		kind = store.KindStep
	}
	if !kind.Valid() {
		return nil, ErrInvalidStepKind
	}
	r, err := s.getJobRun(ctx, jobID, runID)
	if err != nil {
		return nil, err
	}
	if r.Complete() {
		return nil, ErrRunAlreadyComplete
	}
	return s.stepStore.CreateStep(ctx, r.RunID, strings.TrimSpace(name), kind, s.timeOrNow(startedOn))
}

// ListJobRuns returns the runs of a job, most recent first. A positive limit
// returns only the latest runs.
func (s *JobService) ListJobRuns(ctx context.Context, jobID, limit int64) ([]store.Run, error) {
	if _, err := s.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}
	if limit > 0 {
		return s.runStore.ListLatestJobRuns(ctx, jobID, limit)
	}
	return s.runStore.ListJobRuns(ctx, jobID)
}

// ImportHistory stores the runs of a history file under the job it names,
// creating the job when it does not exist yet. The runs are written in one
// transaction and runs the job already has are skipped. It returns the job
// and the number of runs stored.
func (s *JobService) ImportHistory(ctx context.Context, f *history.File) (*store.Job, int, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, ValidationError{Message: err.Error()}
	}

	j, err := s.GetJobByName(ctx, f.Job)
	if errors.Is(err, ErrJobNotFound) {
		j, err = s.CreateJob(ctx, f.Job, f.Description)
	}
	if err != nil {
		return nil, 0, err
	}

	runs := make([]store.ImportedRun, len(f.Runs))
	for i, hr := range f.Runs {
		r := store.ImportedRun{
			Status:    store.StatusRunning,
			StartedOn: hr.Started,
			EndedOn:   hr.EndedOn(),
			Steps:     make([]store.ImportedStep, len(hr.Steps)),
		}
		if !hr.Building {
			r.Status = hr.Outcome
		}
		for k, step := range hr.Steps {
			kind := step.Kind
			if kind == "" {
				kind = store.KindStep
			}
			r.Steps[k] = store.ImportedStep{Name: step.Name, Kind: kind, StartedOn: step.Started}
		}
		runs[i] = r
	}

	n, err := s.runStore.ImportRuns(ctx, j.JobID, runs)
	if err != nil {
		return j, 0, fmt.Errorf("import history: %w", err)
	}

	slog.Info("history: imported", "job", j.Name, "runs", n, "skipped", len(f.Runs)-n)
	return j, n, nil
}

// ExportHistory writes the stored history of a job as a history file, the
// inverse of ImportHistory.
func (s *JobService) ExportHistory(ctx context.Context, jobID int64) (*history.File, error) {
	j, err := s.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	runs, err := s.runStore.ListJobRuns(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	steps, err := s.stepStore.ListJobSteps(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return history.NewFile(j, runs, steps), nil
}

func (s *JobService) getJobRun(ctx context.Context, jobID, runID int64) (*store.Run, error) {
	r, err := s.runStore.ReadRunByID(ctx, runID)
	if err != nil {
		return nil, notFound(err, ErrRunNotFound)
	}
	if r.RunJobID != jobID {
		return nil, ErrRunNotFound
	}
	return r, nil
}

func (s *JobService) timeOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return s.clock.Now()
	}
	return *t
}

func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
