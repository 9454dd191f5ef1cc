package handler

import "time"

type JobParams struct {
	JobID       int64  `param:"job_id"`
	Name        string `               json:"name"`
	Description string `               json:"description"`
}

type ListRunsParams struct {
	JobID int64 `param:"job_id"`
	Limit int64 `                query:"limit"`
}

type RunParams struct {
	JobID     int64      `param:"job_id"`
	RunID     int64      `param:"run_id"`
	StartedOn *time.Time `               json:"started_on"`
}

type CompleteRunParams struct {
	JobID   int64      `param:"job_id"`
	RunID   int64      `param:"run_id"`
	Outcome string     `               json:"outcome"`
	EndedOn *time.Time `               json:"ended_on"`
}

type StepParams struct {
	JobID     int64      `param:"job_id"`
	RunID     int64      `param:"run_id"`
	Name      string     `               json:"name"`
	Kind      string     `               json:"kind"`
	StartedOn *time.Time `               json:"started_on"`
}

type APIKeyParams struct {
	ID int64 `param:"id"`
}

type CreateAPIKeyParams struct {
	Producer string `json:"producer"`
}
