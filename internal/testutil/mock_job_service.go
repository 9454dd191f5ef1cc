package testutil

import (
	"context"
	"time"

	"github.com/haatos/simple-ci-metrics/internal/history"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, name, description string) (*store.Job, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobService) GetJobByID(ctx context.Context, id int64) (*store.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobService) GetJobByName(ctx context.Context, name string) (*store.Job, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobService) ListJobs(ctx context.Context) ([]*store.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Job), nil
}

func (m *MockJobService) DeleteJob(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobService) StartRun(
	ctx context.Context,
	jobID int64,
	startedOn *time.Time,
) (*store.Run, error) {
	args := m.Called(ctx, jobID, startedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), nil
}

func (m *MockJobService) CompleteRun(
	ctx context.Context,
	jobID, runID int64,
	status store.RunStatus,
	endedOn *time.Time,
) (*store.Run, error) {
	args := m.Called(ctx, jobID, runID, status, endedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), nil
}

func (m *MockJobService) AppendRunStep(
	ctx context.Context,
	jobID, runID int64,
	name string,
	kind store.StepKind,
	startedOn *time.Time,
) (*store.Step, error) {
	args := m.Called(ctx, jobID, runID, name, kind, startedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Step), nil
}

func (m *MockJobService) ListJobRuns(ctx context.Context, jobID, limit int64) ([]store.Run, error) {
	args := m.Called(ctx, jobID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Run), nil
}

func (m *MockJobService) ImportHistory(
	ctx context.Context,
	f *history.File,
) (*store.Job, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*store.Job), args.Int(1), args.Error(2)
}

func (m *MockJobService) ExportHistory(ctx context.Context, jobID int64) (*history.File, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.File), nil
}
