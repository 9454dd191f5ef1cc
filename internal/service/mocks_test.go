package service

import (
	"context"
	"time"

	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) CreateJob(ctx context.Context, name, description string) (*store.Job, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobStore) DeleteJob(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobStore) ReadJobByID(ctx context.Context, id int64) (*store.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobStore) ReadJobByName(ctx context.Context, name string) (*store.Job, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Job), nil
}

func (m *MockJobStore) ListJobs(ctx context.Context) ([]*store.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Job), nil
}

type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) CreateRun(
	ctx context.Context,
	jobID int64,
	status store.RunStatus,
	startedOn time.Time,
	endedOn *time.Time,
) (*store.Run, error) {
	args := m.Called(ctx, jobID, status, startedOn, endedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), nil
}

func (m *MockRunStore) UpdateRunEndedOn(
	ctx context.Context,
	id int64,
	status store.RunStatus,
	endedOn time.Time,
) error {
	args := m.Called(ctx, id, status, endedOn)
	return args.Error(0)
}

func (m *MockRunStore) ImportRuns(
	ctx context.Context,
	jobID int64,
	runs []store.ImportedRun,
) (int, error) {
	args := m.Called(ctx, jobID, runs)
	return args.Int(0), args.Error(1)
}

func (m *MockRunStore) DeleteRun(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRunStore) ReadRunByID(ctx context.Context, id int64) (*store.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), nil
}

func (m *MockRunStore) ListJobRuns(ctx context.Context, jobID int64) ([]store.Run, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Run), nil
}

func (m *MockRunStore) ListLatestJobRuns(
	ctx context.Context,
	jobID, limit int64,
) ([]store.Run, error) {
	args := m.Called(ctx, jobID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Run), nil
}

func (m *MockRunStore) CountJobRuns(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunStore) DeleteRunsEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunStore) DeleteJobRunsBeyond(ctx context.Context, jobID, keep int64) (int64, error) {
	args := m.Called(ctx, jobID, keep)
	return args.Get(0).(int64), args.Error(1)
}

type MockStepStore struct {
	mock.Mock
}

func (m *MockStepStore) CreateStep(
	ctx context.Context,
	runID int64,
	name string,
	kind store.StepKind,
	startedOn time.Time,
) (*store.Step, error) {
	args := m.Called(ctx, runID, name, kind, startedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Step), nil
}

func (m *MockStepStore) ListRunSteps(ctx context.Context, runID int64) ([]store.Step, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Step), nil
}

func (m *MockStepStore) ListJobSteps(ctx context.Context, jobID int64) ([]store.Step, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Step), nil
}

type MockAPIKeyStore struct {
	mock.Mock
}

func (m *MockAPIKeyStore) CreateAPIKey(
	ctx context.Context,
	producer, value string,
) (*store.APIKey, error) {
	args := m.Called(ctx, producer, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}

func (m *MockAPIKeyStore) ReadAPIKeyByValue(ctx context.Context, value string) (*store.APIKey, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}

func (m *MockAPIKeyStore) TouchAPIKey(ctx context.Context, id int64, usedOn time.Time) error {
	return m.Called(ctx, id, usedOn).Error(0)
}

func (m *MockAPIKeyStore) DeleteAPIKey(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPIKeyStore) ListAPIKeys(ctx context.Context) ([]*store.APIKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.APIKey), nil
}

// fixedKeys hands out the same key every time.
type fixedKeys string

func (k fixedKeys) GenerateKey() string {
	return string(k)
}
