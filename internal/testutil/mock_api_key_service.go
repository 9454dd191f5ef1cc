package testutil

import (
	"context"

	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockAPIKeyService stands in for service.APIKeyServicer in handler and
// server tests.
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) CreateAPIKey(ctx context.Context, producer string) (*store.APIKey, error) {
	return apiKeyResult(m.Called(ctx, producer))
}

func (m *MockAPIKeyService) Authenticate(ctx context.Context, value string) (*store.APIKey, error) {
	return apiKeyResult(m.Called(ctx, value))
}

func (m *MockAPIKeyService) DeleteAPIKey(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPIKeyService) ListAPIKeys(ctx context.Context) ([]*store.APIKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.APIKey), nil
}

func apiKeyResult(args mock.Arguments) (*store.APIKey, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}
