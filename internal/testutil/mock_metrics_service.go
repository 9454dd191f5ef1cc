package testutil

import (
	"context"

	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockMetricsService struct {
	mock.Mock
}

func (m *MockMetricsService) GetJobMetrics(ctx context.Context, jobID int64) (*service.JobReport, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JobReport), nil
}

func (m *MockMetricsService) ListJobMetrics(ctx context.Context) ([]*service.JobReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.JobReport), nil
}
