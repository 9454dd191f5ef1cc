package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type RunSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewRunSQLStore(rdb, rwdb *sql.DB) *RunSQLStore {
	return &RunSQLStore{rdb, rwdb}
}

// CreateRun records a run of job jobID. A nil endedOn creates a run that is
// still in progress.
func (store *RunSQLStore) CreateRun(
	ctx context.Context,
	jobID int64,
	status RunStatus,
	startedOn time.Time,
	endedOn *time.Time,
) (*Run, error) {
	r := &Run{
		RunJobID:  jobID,
		Status:    status,
		StartedOn: NewTimestamp(startedOn),
	}
	if endedOn != nil {
		ts := NewTimestamp(*endedOn)
		r.EndedOn = &ts
	}
	query := `insert into runs (
		run_job_id,
		status,
		started_on,
		ended_on
	)
	values ($1, $2, $3, $4)
	returning run_id`
	if err := sqlscan.Get(
		ctx, store.rwdb, &r.RunID, query,
		r.RunJobID, r.Status, r.StartedOn, r.EndedOn,
	); err != nil {
		return nil, err
	}
	return r, nil
}

// ImportRuns stores runs and their step traces under job jobID in a single
// transaction: either every new run is stored or none is. A run starting at
// the same millisecond as a stored run of the job is skipped, so importing
// the same history twice stores it once. It returns the number of runs
// stored.
func (store *RunSQLStore) ImportRuns(ctx context.Context, jobID int64, runs []ImportedRun) (int, error) {
	tx, err := store.rwdb.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	existsQuery := `select count(*) from runs
	where run_job_id = $1 and started_on = $2`
	runQuery := `insert into runs (
		run_job_id,
		status,
		started_on,
		ended_on
	)
	values ($1, $2, $3, $4)
	returning run_id`
	stepQuery := `insert into steps (
		step_run_id,
		seq,
		name,
		kind,
		started_on
	)
	values ($1, $2, $3, $4, $5)`

	var imported int
	for i, r := range runs {
		startedOn := NewTimestamp(r.StartedOn)
		var existing int64
		if err := sqlscan.Get(ctx, tx, &existing, existsQuery, jobID, startedOn); err != nil {
			return 0, fmt.Errorf("run %d: %w", i+1, err)
		}
		if existing > 0 {
			continue
		}

		var endedOn *Timestamp
		if r.EndedOn != nil {
			ts := NewTimestamp(*r.EndedOn)
			endedOn = &ts
		}
		var runID int64
		if err := sqlscan.Get(ctx, tx, &runID, runQuery, jobID, r.Status, startedOn, endedOn); err != nil {
			return 0, fmt.Errorf("run %d: %w", i+1, err)
		}
		for seq, s := range r.Steps {
			if _, err := tx.ExecContext(
				ctx, stepQuery,
				runID, seq+1, s.Name, s.Kind, NewTimestamp(s.StartedOn),
			); err != nil {
				return 0, fmt.Errorf("run %d step %q: %w", i+1, s.Name, err)
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

func (store *RunSQLStore) ReadRunByID(ctx context.Context, id int64) (*Run, error) {
	r := new(Run)
	query := "select * from runs where run_id = $1"
	if err := sqlscan.Get(ctx, store.rdb, r, query, id); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRunEndedOn completes a run that is still in progress. It returns
// sql.ErrNoRows when no such run exists.
func (store *RunSQLStore) UpdateRunEndedOn(
	ctx context.Context,
	id int64,
	status RunStatus,
	endedOn time.Time,
) error {
	query := `update runs
	set status = $1,
		ended_on = $2
	where run_id = $3 and ended_on is null`
	res, err := store.rwdb.ExecContext(ctx, query, status, NewTimestamp(endedOn), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (store *RunSQLStore) DeleteRun(ctx context.Context, id int64) error {
	query := "delete from runs where run_id = $1"
	res, err := store.rwdb.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ListJobRuns returns every run of a job, most recent first.
func (store *RunSQLStore) ListJobRuns(ctx context.Context, jobID int64) ([]Run, error) {
	query := `select * from runs
	where run_job_id = $1
	order by started_on desc, run_id desc`
	runs := make([]Run, 0)
	err := sqlscan.Select(ctx, store.rdb, &runs, query, jobID)
	return runs, err
}

func (store *RunSQLStore) ListLatestJobRuns(
	ctx context.Context,
	jobID, limit int64,
) ([]Run, error) {
	query := `select * from runs
	where run_job_id = $1
	order by started_on desc, run_id desc limit $2`
	runs := make([]Run, 0)
	err := sqlscan.Select(ctx, store.rdb, &runs, query, jobID, limit)
	return runs, err
}

func (store *RunSQLStore) CountJobRuns(ctx context.Context, jobID int64) (int64, error) {
	var count int64
	query := `select count(*) from runs where run_job_id = $1`
	err := sqlscan.Get(ctx, store.rdb, &count, query, jobID)
	return count, err
}

// DeleteRunsEndedBefore removes completed runs that ended before cutoff.
func (store *RunSQLStore) DeleteRunsEndedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `delete from runs where ended_on is not null and ended_on < $1`
	res, err := store.rwdb.ExecContext(ctx, query, NewTimestamp(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteJobRunsBeyond keeps the keep most recent runs of a job and removes
// the rest.
func (store *RunSQLStore) DeleteJobRunsBeyond(
	ctx context.Context,
	jobID, keep int64,
) (int64, error) {
	query := `delete from runs
	where run_job_id = $1
	and run_id not in (
		select run_id from runs
		where run_job_id = $1
		order by started_on desc, run_id desc
		limit $2
	)`
	res, err := store.rwdb.ExecContext(ctx, query, jobID, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
