package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

func NewAPIKeySQLStore(rdb, rwdb *sql.DB) *APIKeySQLStore {
	return &APIKeySQLStore{rdb, rwdb}
}

type APIKeySQLStore struct {
	rdb, rwdb *sql.DB
}

func (store *APIKeySQLStore) CreateAPIKey(
	ctx context.Context,
	producer, value string,
) (*APIKey, error) {
	key := &APIKey{Producer: producer, Value: value}
	query := `insert into api_keys (producer, value)
	values ($1, $2)
	returning id, created_on`
	if err := sqlscan.Get(ctx, store.rwdb, key, query, producer, value); err != nil {
		return nil, err
	}
	return key, nil
}

func (store *APIKeySQLStore) ReadAPIKeyByValue(
	ctx context.Context,
	value string,
) (*APIKey, error) {
	key := new(APIKey)
	query := `select * from api_keys where value = $1`
	if err := sqlscan.Get(ctx, store.rdb, key, query, value); err != nil {
		return nil, err
	}
	return key, nil
}

// TouchAPIKey records that key id authenticated a request at usedOn.
func (store *APIKeySQLStore) TouchAPIKey(ctx context.Context, id int64, usedOn time.Time) error {
	query := `update api_keys set last_used_on = $1 where id = $2`
	res, err := store.rwdb.ExecContext(ctx, query, NewTimestamp(usedOn), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (store *APIKeySQLStore) DeleteAPIKey(ctx context.Context, id int64) error {
	query := `delete from api_keys where id = $1`
	res, err := store.rwdb.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ListAPIKeys returns every key, grouped by producer.
func (store *APIKeySQLStore) ListAPIKeys(ctx context.Context) ([]*APIKey, error) {
	query := `select * from api_keys order by producer, id`
	keys := make([]*APIKey, 0)
	err := sqlscan.Select(ctx, store.rdb, &keys, query)
	return keys, err
}
