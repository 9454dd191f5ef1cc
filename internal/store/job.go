package store

type Job struct {
	JobID       int64     `json:"job_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedOn   Timestamp `json:"created_on"`
}
