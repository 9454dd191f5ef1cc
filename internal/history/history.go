// Package history reads and writes build history files: YAML documents
// holding the runs of one job. They are used to import history into the
// store and to compute reports offline.
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/store"
)

type File struct {
	Job         string `yaml:"job"`
	Description string `yaml:"description,omitempty"`
	Runs        []Run  `yaml:"runs"`
}

// Run is one build. Building runs are still in progress and carry neither
// an outcome nor a duration.
type Run struct {
	ID       int64           `yaml:"id,omitempty"`
	Outcome  store.RunStatus `yaml:"outcome,omitempty"`
	Started  time.Time       `yaml:"started"`
	Duration string          `yaml:"duration,omitempty"`
	Building bool            `yaml:"building,omitempty"`
	Steps    []Step          `yaml:"steps,omitempty"`
}

type Step struct {
	Name    string         `yaml:"name"`
	Kind    store.StepKind `yaml:"kind,omitempty"`
	Started time.Time      `yaml:"started"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*File, error) {
	file := new(File)
	if err := yaml.NewDecoder(r).Decode(file); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

func Encode(w io.Writer, file *File) error {
	return yaml.NewEncoder(w).Encode(file)
}

func (f *File) Validate() error {
	if f.Job == "" {
		return errors.New("history: job is required")
	}
	for i := range f.Runs {
		if err := f.Runs[i].validate(); err != nil {
			return fmt.Errorf("history: run %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Run) validate() error {
	if r.Started.IsZero() {
		return errors.New("started is required")
	}
	for _, s := range r.Steps {
		if s.Kind != "" && !s.Kind.Valid() {
			return fmt.Errorf("step %q: invalid kind %q", s.Name, s.Kind)
		}
	}
	if r.Building {
		return nil
	}
	if !r.Outcome.Final() {
		return fmt.Errorf("invalid outcome %q", r.Outcome)
	}
	d, err := r.ParseDuration()
	if err != nil {
		return err
	}
	if d < 0 {
		return errors.New("duration must not be negative")
	}
	return nil
}

// ParseDuration parses the run's duration, e.g. "1m30s". A missing duration
// is zero.
func (r *Run) ParseDuration() (time.Duration, error) {
	if r.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", r.Duration, err)
	}
	return d, nil
}

// EndedOn returns when a completed run ended, or nil for a building run.
func (r *Run) EndedOn() *time.Time {
	if r.Building {
		return nil
	}
	d, _ := r.ParseDuration()
	ended := r.Started.Add(d)
	return &ended
}

// Records converts the file's runs for the metrics engine. Runs without an
// ID are numbered by their position in the file.
func (f *File) Records() []metrics.Record {
	records := make([]metrics.Record, len(f.Runs))
	for i, r := range f.Runs {
		id := r.ID
		if id == 0 {
			id = int64(i + 1)
		}
		record := metrics.Record{
			ID:        id,
			Complete:  !r.Building,
			StartTime: r.Started,
		}
		if !r.Building {
			record.Outcome = r.Outcome.Outcome()
			record.Duration, _ = r.ParseDuration()
		}
		if len(r.Steps) > 0 {
			record.Trace = make([]metrics.TraceNode, len(r.Steps))
			for j, s := range r.Steps {
				record.Trace[j] = metrics.TraceNode{
					StartTime: s.Started,
					Checkout:  s.Kind == store.KindCheckout,
				}
			}
		}
		records[i] = record
	}
	return records
}

// NewFile builds the history file of a job from its stored runs and steps.
// Runs are written oldest first.
func NewFile(job *store.Job, runs []store.Run, steps []store.Step) *File {
	stepsByRun := make(map[int64][]Step)
	for _, s := range steps {
		stepsByRun[s.StepRunID] = append(stepsByRun[s.StepRunID], Step{
			Name:    s.Name,
			Kind:    s.Kind,
			Started: s.StartedOn.UTC(),
		})
	}

	f := &File{Job: job.Name, Description: job.Description, Runs: make([]Run, 0, len(runs))}
	for _, r := range runs {
		hr := Run{
			ID:      r.RunID,
			Started: r.StartedOn.UTC(),
			Steps:   stepsByRun[r.RunID],
		}
		if r.Complete() {
			hr.Outcome = r.Status
			hr.Duration = r.Duration().String()
		} else {
			hr.Building = true
		}
		f.Runs = append(f.Runs, hr)
	}
	slices.SortStableFunc(f.Runs, func(a, b Run) int {
		return a.Started.Compare(b.Started)
	})
	return f
}
