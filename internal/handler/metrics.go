package handler

import (
	"net/http"

	"github.com/haatos/simple-ci-metrics/internal/exposition"
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/common/expfmt"
)

func SetupMetricsRoutes(g *echo.Group, metricsService service.MetricsServicer) {
	h := NewMetricsHandler(metricsService)
	g.GET("/api/metrics", h.GetAllJobMetrics)
	g.GET("/api/jobs/:job_id/metrics", h.GetJobMetrics)
	g.GET("/api/jobs/:job_id/metrics/columns", h.GetJobMetricColumns)
	g.GET("/metrics", h.GetExposition)
}

type MetricsHandler struct {
	metricsService service.MetricsServicer
}

func NewMetricsHandler(metricsService service.MetricsServicer) *MetricsHandler {
	return &MetricsHandler{metricsService}
}

type jobExport struct {
	JobID   int64          `json:"job_id"`
	Name    string         `json:"name"`
	Runs    int            `json:"runs"`
	Metrics metrics.Export `json:"metrics"`
}

func newJobExport(r *service.JobReport) jobExport {
	return jobExport{
		JobID:   r.Job.JobID,
		Name:    r.Job.Name,
		Runs:    len(r.Metrics.Records()),
		Metrics: r.Metrics.Export(),
	}
}

func (h *MetricsHandler) GetJobMetrics(c echo.Context) error {
	jp := new(JobParams)
	if err := c.Bind(jp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid job id")
	}

	report, err := h.metricsService.GetJobMetrics(c.Request().Context(), jp.JobID)
	if err != nil {
		return serviceError(c, err, "unable to compute job metrics")
	}
	return c.JSON(http.StatusOK, report.Metrics.Export())
}

func (h *MetricsHandler) GetJobMetricColumns(c echo.Context) error {
	jp := new(JobParams)
	if err := c.Bind(jp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid job id")
	}

	report, err := h.metricsService.GetJobMetrics(c.Request().Context(), jp.JobID)
	if err != nil {
		return serviceError(c, err, "unable to compute job metrics")
	}
	return c.JSON(http.StatusOK, report.Metrics.Columns())
}

func (h *MetricsHandler) GetAllJobMetrics(c echo.Context) error {
	reports, err := h.metricsService.ListJobMetrics(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "unable to compute metrics")
	}

	exports := make([]jobExport, len(reports))
	for i, r := range reports {
		exports[i] = newJobExport(r)
	}
	return c.JSON(http.StatusOK, exports)
}

// GetExposition serves every job's metrics for Prometheus scrapes, in the
// format negotiated from the Accept header.
func (h *MetricsHandler) GetExposition(c echo.Context) error {
	reports, err := h.metricsService.ListJobMetrics(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "unable to compute metrics")
	}

	jobs := make([]exposition.Job, len(reports))
	for i, r := range reports {
		jobs[i] = exposition.Job{Name: r.Job.Name, Metrics: r.Metrics}
	}

	format := expfmt.Negotiate(c.Request().Header)
	c.Response().Header().Set(echo.HeaderContentType, string(format))
	c.Response().WriteHeader(http.StatusOK)
	return exposition.Write(c.Response(), exposition.Families(jobs), format)
}
