package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type StepSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewStepSQLStore(rdb, rwdb *sql.DB) *StepSQLStore {
	return &StepSQLStore{rdb, rwdb}
}

// CreateStep appends a step to the trace of run runID.
func (store *StepSQLStore) CreateStep(
	ctx context.Context,
	runID int64,
	name string,
	kind StepKind,
	startedOn time.Time,
) (*Step, error) {
	s := &Step{
		StepRunID: runID,
		Name:      name,
		Kind:      kind,
		StartedOn: NewTimestamp(startedOn),
	}
	query := `insert into steps (
		step_run_id,
		seq,
		name,
		kind,
		started_on
	)
	values (
		$1,
		(select coalesce(max(seq), 0) + 1 from steps where step_run_id = $1),
		$2, $3, $4
	)
	returning step_id, seq`
	if err := sqlscan.Get(
		ctx, store.rwdb, s, query,
		s.StepRunID, s.Name, s.Kind, s.StartedOn,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (store *StepSQLStore) ListRunSteps(ctx context.Context, runID int64) ([]Step, error) {
	query := `select * from steps
	where step_run_id = $1
	order by seq`
	steps := make([]Step, 0)
	err := sqlscan.Select(ctx, store.rdb, &steps, query, runID)
	return steps, err
}

// ListJobSteps returns the steps of every run of a job, grouped by run and
// in trace order within each run.
func (store *StepSQLStore) ListJobSteps(ctx context.Context, jobID int64) ([]Step, error) {
	query := `select s.*
	from steps s
	join runs r
	on s.step_run_id = r.run_id
	where r.run_job_id = $1
	order by s.step_run_id, s.seq`
	steps := make([]Step, 0)
	err := sqlscan.Select(ctx, store.rdb, &steps, query, jobID)
	return steps, err
}
