package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/haatos/simple-ci-metrics/internal/testutil"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nightly = `job: nightly
runs:
  - id: 1
    outcome: success
    started: 2024-03-01T12:00:00Z
    duration: 2s
    steps:
      - name: git
        kind: checkout
        started: 2024-03-01T12:00:00Z
      - name: build
        started: 2024-03-01T12:00:00.5Z
  - id: 2
    outcome: failure
    started: 2024-03-02T12:00:00Z
    duration: 4s
`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SIMPLECI_DB_DRIVER", "sqlite")
	t.Setenv("SIMPLECI_DB_PATH", "file:"+filepath.Join(dir, "metrics.sqlite"))
	t.Setenv("SIMPLECI_CONFIG_PATH", filepath.Join(dir, "config.json"))
	return dir
}

func writeHistory(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "nightly.yml")
	require.NoError(t, os.WriteFile(path, []byte(nightly), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Migrate(t *testing.T) {
	t.Run("success - database is migrated", func(t *testing.T) {
		// arrange
		setupEnv(t)

		// act
		out, err := execute(t, "migrate")

		// assert
		assert.NoError(t, err)
		assert.Contains(t, out, "sqlite database at version 2")
	})
}

func TestCLI_Report(t *testing.T) {
	t.Run("success - json report from a history file", func(t *testing.T) {
		// arrange
		dir := setupEnv(t)
		path := writeHistory(t, dir)

		// act
		out, err := execute(t, "report", "--file", path, "--format", "json")

		// assert
		require.NoError(t, err)
		var r reportJSON
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, "nightly", r.Job)
		assert.Equal(t, 2, r.Runs)
		assert.Equal(t, int64(3000), r.Metrics.AvgDuration)
		assert.Equal(t, int64(500), r.Metrics.AvgCheckoutDuration)
		assert.Equal(t, 0.5, r.Metrics.SuccessRate)
		assert.Len(t, r.Columns, len(metrics.Symbols()))
	})
	t.Run("success - report from the database", func(t *testing.T) {
		// arrange
		dir := setupEnv(t)
		path := writeHistory(t, dir)
		_, err := execute(t, "history", "import", path)
		require.NoError(t, err)

		// act
		out, err := execute(t, "report", "--job", "nightly", "--format", "json")

		// assert
		require.NoError(t, err)
		var r reportJSON
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, 2, r.Runs)
		assert.Equal(t, int64(4000), r.Metrics.MaxDuration)
		assert.Equal(t, int64(500), r.Metrics.MaxCheckoutDuration)
	})
	t.Run("failure - job and file are both missing", func(t *testing.T) {
		// arrange
		setupEnv(t)

		// act
		_, err := execute(t, "report")

		// assert
		assert.Error(t, err)
	})
	t.Run("failure - unknown format", func(t *testing.T) {
		// arrange
		dir := setupEnv(t)
		path := writeHistory(t, dir)

		// act
		_, err := execute(t, "report", "--file", path, "--format", "xml")

		// assert
		assert.ErrorContains(t, err, "unknown format")
	})
	t.Run("failure - unknown job", func(t *testing.T) {
		// arrange
		setupEnv(t)

		// act
		_, err := execute(t, "report", "--job", "ghost", "--format", "json")

		// assert
		assert.ErrorContains(t, err, "job not found")
	})
}

func TestCLI_WriteReportTable(t *testing.T) {
	// arrange
	started := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	records := []metrics.Record{{
		ID:        7,
		Outcome:   metrics.OutcomeSuccess,
		Complete:  true,
		StartTime: started,
		Duration:  1100 * time.Millisecond,
	}}
	r := &report{
		Job:     "nightly",
		Metrics: metrics.NewJobMetrics(records, clockwork.NewFakeClockAt(started)),
	}
	var buf bytes.Buffer

	// act
	err := writeReportTable(&buf, r, started.Add(3*time.Hour))

	// assert
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "nightly: 1 runs, last run 3 hours ago\n"))
	assert.Contains(t, out, "METRIC")
	assert.Regexp(t, `Longest run\s+1\.1 sec\s+#7`, out)
	assert.Regexp(t, `Average checkout duration\s+N/A\s+-`, out)
	assert.Regexp(t, `Success rate\s+100\.00%`, out)
}

func TestCLI_History(t *testing.T) {
	t.Run("success - imported history is exported again", func(t *testing.T) {
		// arrange
		dir := setupEnv(t)
		path := writeHistory(t, dir)
		out, err := execute(t, "history", "import", path)
		require.NoError(t, err)
		require.Contains(t, out, "imported 2 runs into nightly")

		// act
		out, err = execute(t, "history", "export", "nightly")

		// assert
		require.NoError(t, err)
		assert.Contains(t, out, "job: nightly")
		assert.Contains(t, out, "outcome: failure")
		assert.Contains(t, out, "duration: 4s")
		assert.Contains(t, out, "kind: checkout")
	})
	t.Run("success - importing the same history twice stores it once", func(t *testing.T) {
		// arrange
		dir := setupEnv(t)
		path := writeHistory(t, dir)
		_, err := execute(t, "history", "import", path)
		require.NoError(t, err)

		// act
		out, err := execute(t, "history", "import", path)
		exported, exportErr := execute(t, "history", "export", "nightly")

		// assert
		require.NoError(t, err)
		require.NoError(t, exportErr)
		assert.Contains(t, out, "imported 0 runs into nightly")
		assert.Equal(t, 2, strings.Count(exported, "outcome:"))
	})
}

func TestCLI_APIKey(t *testing.T) {
	t.Run("success - api key is created and listed", func(t *testing.T) {
		// arrange
		setupEnv(t)

		// act
		created, err := execute(t, "apikey", "create", "jenkins-main")
		require.NoError(t, err)
		listed, listErr := execute(t, "apikey", "list")

		// assert
		require.NoError(t, listErr)
		assert.True(t, strings.HasPrefix(created, "sci_"))
		assert.Contains(t, listed, strings.TrimSpace(created))
		assert.Contains(t, listed, "jenkins-main")
		assert.Contains(t, listed, "never")
	})
	t.Run("failure - producer is required", func(t *testing.T) {
		// arrange
		setupEnv(t)

		// act
		_, err := execute(t, "apikey", "create")

		// assert
		assert.Error(t, err)
	})
}

func TestCLI_NewServer(t *testing.T) {
	t.Run("success - jobs are listed without an api key", func(t *testing.T) {
		// arrange
		jobService := new(testutil.MockJobService)
		jobService.On("ListJobs", context.Background()).Return([]*store.Job{}, nil)
		e := newServer(
			jobService,
			new(testutil.MockMetricsService),
			new(testutil.MockAPIKeyService),
			testutil.DiscardLogger(),
		)
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		rec := httptest.NewRecorder()

		// act
		e.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
	t.Run("failure - recording a run requires an api key", func(t *testing.T) {
		// arrange
		jobService := new(testutil.MockJobService)
		e := newServer(
			jobService,
			new(testutil.MockMetricsService),
			new(testutil.MockAPIKeyService),
			testutil.DiscardLogger(),
		)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/1/runs", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		// act
		e.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"missing api key"}`, rec.Body.String())
		jobService.AssertNotCalled(t, "StartRun")
	})
	t.Run("success - run is recorded with an api key", func(t *testing.T) {
		// arrange
		ak := &store.APIKey{ID: 1, Producer: "jenkins-main", Value: "secret"}
		apiKeyService := new(testutil.MockAPIKeyService)
		apiKeyService.On("Authenticate", context.Background(), "secret").Return(ak, nil)
		jobService := new(testutil.MockJobService)
		jobService.On(
			"StartRun", context.Background(), int64(1), (*time.Time)(nil),
		).Return(&store.Run{RunID: 2, RunJobID: 1, Status: store.StatusRunning}, nil)
		e := newServer(
			jobService,
			new(testutil.MockMetricsService),
			apiKeyService,
			testutil.DiscardLogger(),
		)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/1/runs", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(internal.WebhookTriggerKeyHeader, "secret")
		rec := httptest.NewRecorder()

		// act
		e.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"run_id":2`)
	})
}
