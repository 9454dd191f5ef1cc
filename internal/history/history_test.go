package history

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `job: nightly
description: nightly build
runs:
  - id: 41
    outcome: success
    started: 2024-03-01T12:00:00Z
    duration: 1m30s
    steps:
      - name: git
        kind: checkout
        started: 2024-03-01T12:00:00Z
      - name: build
        started: 2024-03-01T12:00:00.5Z
  - id: 42
    outcome: aborted
    started: 2024-03-02T12:00:00Z
    duration: 3s
  - id: 43
    started: 2024-03-03T12:00:00Z
    building: true
`

func TestHistory_Decode(t *testing.T) {
	t.Run("success - history is decoded", func(t *testing.T) {
		// act
		f, err := Decode(strings.NewReader(sample))

		// assert
		require.NoError(t, err)
		assert.Equal(t, "nightly", f.Job)
		assert.Len(t, f.Runs, 3)
		assert.Equal(t, store.StatusAborted, f.Runs[1].Outcome)
		assert.True(t, f.Runs[2].Building)
		assert.Nil(t, f.Runs[2].EndedOn())
		ended := f.Runs[0].EndedOn()
		require.NotNil(t, ended)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 1, 30, 0, time.UTC), ended.UTC())
	})
	t.Run("failure - missing job", func(t *testing.T) {
		// act
		_, err := Decode(strings.NewReader("runs: []\n"))

		// assert
		assert.Error(t, err)
	})
	t.Run("failure - invalid outcome", func(t *testing.T) {
		// arrange
		doc := "job: x\nruns:\n  - outcome: great\n    started: 2024-03-01T12:00:00Z\n"

		// act
		_, err := Decode(strings.NewReader(doc))

		// assert
		assert.ErrorContains(t, err, "invalid outcome")
	})
	t.Run("failure - invalid duration", func(t *testing.T) {
		// arrange
		doc := "job: x\nruns:\n  - outcome: success\n    started: 2024-03-01T12:00:00Z\n    duration: soon\n"

		// act
		_, err := Decode(strings.NewReader(doc))

		// assert
		assert.ErrorContains(t, err, "invalid duration")
	})
	t.Run("failure - building run with invalid step kind", func(t *testing.T) {
		// arrange
		doc := "job: x\nruns:\n  - started: 2024-03-01T12:00:00Z\n    building: true\n    steps:\n      - name: fetch\n        kind: bogus\n        started: 2024-03-01T12:00:00Z\n"

		// act
		_, err := Decode(strings.NewReader(doc))

		// assert
		assert.ErrorContains(t, err, `step "fetch": invalid kind "bogus"`)
	})
}

func TestHistory_Records(t *testing.T) {
	// arrange
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	// act
	records := f.Records()

	// assert
	require.Len(t, records, 3)
	assert.Equal(t, int64(41), records[0].ID)
	assert.Equal(t, metrics.OutcomeSuccess, records[0].Outcome)
	assert.Equal(t, 90*time.Second, records[0].Duration)
	assert.Equal(t, int64(500), metrics.CheckoutDuration(records[0].Trace))
	assert.Equal(t, metrics.OutcomeFailure, records[1].Outcome)
	assert.Nil(t, records[1].Trace)
	assert.False(t, records[2].Complete)
}

func TestHistory_Encode(t *testing.T) {
	// arrange
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	var buf bytes.Buffer

	// act
	err = Encode(&buf, f)
	decoded, decodeErr := Decode(&buf)

	// assert
	assert.NoError(t, err)
	assert.NoError(t, decodeErr)
	assert.Equal(t, f.Records(), decoded.Records())
}

func TestHistory_NewFile(t *testing.T) {
	// arrange
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := store.NewTimestamp(started.Add(90 * time.Second))
	job := &store.Job{JobID: 1, Name: "nightly", Description: "nightly build"}
	runs := []store.Run{
		{
			RunID:     2,
			RunJobID:  1,
			Status:    store.StatusRunning,
			StartedOn: store.NewTimestamp(started.Add(time.Hour)),
		},
		{
			RunID:     1,
			RunJobID:  1,
			Status:    store.StatusSuccess,
			StartedOn: store.NewTimestamp(started),
			EndedOn:   &ended,
		},
	}
	steps := []store.Step{
		{StepRunID: 1, Seq: 1, Name: "git", Kind: store.KindCheckout, StartedOn: store.NewTimestamp(started)},
		{StepRunID: 1, Seq: 2, Name: "build", Kind: store.KindStep, StartedOn: store.NewTimestamp(started.Add(time.Second))},
	}

	// act
	f := NewFile(job, runs, steps)

	// assert
	require.NoError(t, f.Validate())
	assert.Equal(t, "nightly", f.Job)
	require.Len(t, f.Runs, 2)
	assert.Equal(t, int64(1), f.Runs[0].ID)
	assert.Equal(t, store.StatusSuccess, f.Runs[0].Outcome)
	assert.Equal(t, "1m30s", f.Runs[0].Duration)
	assert.Len(t, f.Runs[0].Steps, 2)
	assert.True(t, f.Runs[1].Building)
	assert.Empty(t, f.Runs[1].Outcome)

	records := f.Records()
	assert.Equal(t, 90*time.Second, records[0].Duration)
	assert.Equal(t, int64(1000), metrics.CheckoutDuration(records[0].Trace))
}
