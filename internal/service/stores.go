package service

import (
	"context"
	"time"

	"github.com/haatos/simple-ci-metrics/internal/store"
)

type JobWriter interface {
	CreateJob(context.Context, string, string) (*store.Job, error)
	DeleteJob(context.Context, int64) error
}

type JobReader interface {
	ReadJobByID(context.Context, int64) (*store.Job, error)
	ReadJobByName(context.Context, string) (*store.Job, error)
	ListJobs(context.Context) ([]*store.Job, error)
}

type JobStore interface {
	JobWriter
	JobReader
}

type RunWriter interface {
	CreateRun(context.Context, int64, store.RunStatus, time.Time, *time.Time) (*store.Run, error)
	UpdateRunEndedOn(context.Context, int64, store.RunStatus, time.Time) error
	ImportRuns(context.Context, int64, []store.ImportedRun) (int, error)
	DeleteRun(context.Context, int64) error
}

type RunReader interface {
	ReadRunByID(context.Context, int64) (*store.Run, error)
	ListJobRuns(context.Context, int64) ([]store.Run, error)
	ListLatestJobRuns(context.Context, int64, int64) ([]store.Run, error)
	CountJobRuns(context.Context, int64) (int64, error)
}

type RunStore interface {
	RunWriter
	RunReader
}

type RunPruner interface {
	DeleteRunsEndedBefore(context.Context, time.Time) (int64, error)
	DeleteJobRunsBeyond(context.Context, int64, int64) (int64, error)
}

type StepWriter interface {
	CreateStep(context.Context, int64, string, store.StepKind, time.Time) (*store.Step, error)
}

type StepReader interface {
	ListRunSteps(context.Context, int64) ([]store.Step, error)
	ListJobSteps(context.Context, int64) ([]store.Step, error)
}

type StepStore interface {
	StepWriter
	StepReader
}
