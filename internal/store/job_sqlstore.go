package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// JobSQLStore keeps jobs in SQLite or Postgres. Reads go to rdb and writes
// to rwdb.
type JobSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewJobSQLStore(rdb, rwdb *sql.DB) *JobSQLStore {
	return &JobSQLStore{rdb, rwdb}
}

func (store *JobSQLStore) CreateJob(
	ctx context.Context,
	name, description string,
) (*Job, error) {
	j := &Job{Name: name, Description: description}
	query := `insert into jobs (name, description)
	values ($1, $2)
	returning job_id, created_on`
	if err := sqlscan.Get(ctx, store.rwdb, j, query, j.Name, j.Description); err != nil {
		return nil, err
	}
	return j, nil
}

func (store *JobSQLStore) ReadJobByID(ctx context.Context, id int64) (*Job, error) {
	j := new(Job)
	query := "select * from jobs where job_id = $1"
	if err := sqlscan.Get(ctx, store.rdb, j, query, id); err != nil {
		return nil, err
	}
	return j, nil
}

func (store *JobSQLStore) ReadJobByName(ctx context.Context, name string) (*Job, error) {
	j := new(Job)
	query := "select * from jobs where name = $1"
	if err := sqlscan.Get(ctx, store.rdb, j, query, name); err != nil {
		return nil, err
	}
	return j, nil
}

func (store *JobSQLStore) ListJobs(ctx context.Context) ([]*Job, error) {
	query := "select * from jobs order by name"
	jobs := make([]*Job, 0)
	err := sqlscan.Select(ctx, store.rdb, &jobs, query)
	return jobs, err
}

func (store *JobSQLStore) DeleteJob(ctx context.Context, id int64) error {
	query := "delete from jobs where job_id = $1"
	res, err := store.rwdb.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// expectAffected reports sql.ErrNoRows when a write matched nothing.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
