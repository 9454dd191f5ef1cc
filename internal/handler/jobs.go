package handler

import (
	"net/http"

	"github.com/haatos/simple-ci-metrics/internal/history"
	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/labstack/echo/v4"
)

func SetupJobRoutes(
	g *echo.Group,
	jobService service.JobServicer,
	apiKeyService service.APIKeyServicer,
) {
	h := NewJobHandler(jobService)
	requireKey := APIKeyMiddleware(apiKeyService)

	jobsGroup := g.Group("/api/jobs")
	jobsGroup.GET("", h.GetJobs)
	jobsGroup.POST("", h.PostJob, requireKey)
	jobsGroup.POST("/import", h.PostImportHistory, requireKey)
	jobsGroup.GET("/:job_id", h.GetJob)
	jobsGroup.DELETE("/:job_id", h.DeleteJob, requireKey)
	jobsGroup.GET("/:job_id/runs", h.GetJobRuns)
	jobsGroup.POST("/:job_id/runs", h.PostJobRun, requireKey)
	jobsGroup.POST("/:job_id/runs/:run_id/complete", h.PostCompleteRun, requireKey)
	jobsGroup.POST("/:job_id/runs/:run_id/steps", h.PostRunStep, requireKey)
}

type JobHandler struct {
	jobService service.JobServicer
}

func NewJobHandler(jobService service.JobServicer) *JobHandler {
	return &JobHandler{jobService}
}

func (h *JobHandler) GetJobs(c echo.Context) error {
	jobs, err := h.jobService.ListJobs(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "something went wrong while listing jobs")
	}
	if jobs == nil {
		jobs = []*store.Job{}
	}
	return c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) PostJob(c echo.Context) error {
	jp := new(JobParams)
	if err := c.Bind(jp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid job data")
	}

	j, err := h.jobService.CreateJob(c.Request().Context(), jp.Name, jp.Description)
	if err != nil {
		return serviceError(c, err, "unable to create job")
	}
	return c.JSON(http.StatusCreated, j)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	jp := new(JobParams)
	if err := c.Bind(jp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid job id")
	}

	j, err := h.jobService.GetJobByID(c.Request().Context(), jp.JobID)
	if err != nil {
		return serviceError(c, err, "unable to read job")
	}
	return c.JSON(http.StatusOK, j)
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	jp := new(JobParams)
	if err := c.Bind(jp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid job id")
	}

	if err := h.jobService.DeleteJob(c.Request().Context(), jp.JobID); err != nil {
		return serviceError(c, err, "unable to delete job")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *JobHandler) GetJobRuns(c echo.Context) error {
	lrp := new(ListRunsParams)
	if err := c.Bind(lrp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid run query")
	}
	if lrp.Limit < 0 {
		return newError(c, nil, http.StatusBadRequest, "limit cannot be negative")
	}

	runs, err := h.jobService.ListJobRuns(c.Request().Context(), lrp.JobID, lrp.Limit)
	if err != nil {
		return serviceError(c, err, "unable to list runs")
	}
	if runs == nil {
		runs = []store.Run{}
	}
	return c.JSON(http.StatusOK, runs)
}

func (h *JobHandler) PostJobRun(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid run data")
	}

	r, err := h.jobService.StartRun(c.Request().Context(), rp.JobID, rp.StartedOn)
	if err != nil {
		return serviceError(c, err, "unable to start run")
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *JobHandler) PostCompleteRun(c echo.Context) error {
	crp := new(CompleteRunParams)
	if err := c.Bind(crp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid run data")
	}

	r, err := h.jobService.CompleteRun(
		c.Request().Context(),
		crp.JobID, crp.RunID,
		store.RunStatus(crp.Outcome),
		crp.EndedOn,
	)
	if err != nil {
		return serviceError(c, err, "unable to complete run")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *JobHandler) PostRunStep(c echo.Context) error {
	sp := new(StepParams)
	if err := c.Bind(sp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid step data")
	}

	step, err := h.jobService.AppendRunStep(
		c.Request().Context(),
		sp.JobID, sp.RunID,
		sp.Name, store.StepKind(sp.Kind),
		sp.StartedOn,
	)
	if err != nil {
		return serviceError(c, err, "unable to append step")
	}
	return c.JSON(http.StatusCreated, step)
}

type importResponse struct {
	Job  *store.Job `json:"job"`
	Runs int        `json:"runs"`
}

// PostImportHistory reads a YAML history file from the request body.
func (h *JobHandler) PostImportHistory(c echo.Context) error {
	f, err := history.Decode(c.Request().Body)
	if err != nil {
		return newError(c, err, http.StatusBadRequest, err.Error())
	}

	j, n, err := h.jobService.ImportHistory(c.Request().Context(), f)
	if err != nil {
		return serviceError(c, err, "unable to import history")
	}
	return c.JSON(http.StatusCreated, importResponse{Job: j, Runs: n})
}
