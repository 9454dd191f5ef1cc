package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/jonboulle/clockwork"
)

const apiKeyPrefix = "sci_"

type APIKeyStore interface {
	CreateAPIKey(context.Context, string, string) (*store.APIKey, error)
	ReadAPIKeyByValue(context.Context, string) (*store.APIKey, error)
	TouchAPIKey(context.Context, int64, time.Time) error
	DeleteAPIKey(context.Context, int64) error
	ListAPIKeys(context.Context) ([]*store.APIKey, error)
}

type APIKeyServicer interface {
	CreateAPIKey(context.Context, string) (*store.APIKey, error)
	Authenticate(context.Context, string) (*store.APIKey, error)
	DeleteAPIKey(context.Context, int64) error
	ListAPIKeys(context.Context) ([]*store.APIKey, error)
}

type KeyGenerator interface {
	GenerateKey() string
}

// RandomKeys generates keys from random UUIDs.
type RandomKeys struct{}

func (RandomKeys) GenerateKey() string {
	return apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// APIKeyService issues the keys producers authenticate with when they push
// build history.
type APIKeyService struct {
	store APIKeyStore
	keys  KeyGenerator
	clock clockwork.Clock
}

func NewAPIKeyService(store APIKeyStore, keys KeyGenerator, clock clockwork.Clock) *APIKeyService {
	return &APIKeyService{store, keys, clock}
}

// CreateAPIKey issues a new key to producer.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, producer string) (*store.APIKey, error) {
	producer = strings.TrimSpace(producer)
	if producer == "" {
		return nil, ValidationError{Message: "producer is required"}
	}
	return s.store.CreateAPIKey(ctx, producer, s.keys.GenerateKey())
}

// Authenticate returns the key with the given value and records its use. An
// empty or unknown value is ErrInvalidAPIKey.
func (s *APIKeyService) Authenticate(ctx context.Context, value string) (*store.APIKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrInvalidAPIKey
	}
	ak, err := s.store.ReadAPIKeyByValue(ctx, value)
	if err != nil {
		return nil, notFound(err, ErrInvalidAPIKey)
	}

	usedOn := s.clock.Now()
	if err := s.store.TouchAPIKey(ctx, ak.ID, usedOn); err != nil {
		slog.Warn("api key: recording use failed", "id", ak.ID, "producer", ak.Producer, "err", err)
	} else {
		ts := store.NewTimestamp(usedOn)
		ak.LastUsedOn = &ts
	}
	return ak, nil
}

func (s *APIKeyService) DeleteAPIKey(ctx context.Context, id int64) error {
	return notFound(s.store.DeleteAPIKey(ctx, id), ErrAPIKeyNotFound)
}

func (s *APIKeyService) ListAPIKeys(ctx context.Context) ([]*store.APIKey, error) {
	return s.store.ListAPIKeys(ctx)
}
