package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

var (
	configMu sync.RWMutex
	config   = DefaultConfiguration()
)

type HoursDuration time.Duration

func NewHoursDuration(hours int64) HoursDuration {
	return HoursDuration(time.Duration(hours) * time.Hour)
}

func (hd HoursDuration) Duration() time.Duration {
	return time.Duration(hd)
}

func (hd HoursDuration) MarshalJSON() ([]byte, error) {
	hours := float64(time.Duration(hd)) / float64(time.Hour)
	return json.Marshal(hours)
}

func (hd *HoursDuration) UnmarshalJSON(data []byte) error {
	var hours float64
	if err := json.Unmarshal(data, &hours); err != nil {
		return err
	}
	*hd = HoursDuration(hours * float64(time.Hour))
	return nil
}

// Configuration holds the settings that can be changed while the server is
// running. A zero RunRetentionHours or MaxRunsPerJob disables that limit.
type Configuration struct {
	RunRetentionHours HoursDuration `json:"run_retention_hours"`
	MaxRunsPerJob     int64         `json:"max_runs_per_job"`
	RetentionSchedule string        `json:"retention_schedule"`
	MaxConcurrentJobs int64         `json:"max_concurrent_jobs"`
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		RunRetentionHours: NewHoursDuration(90 * 24),
		MaxRunsPerJob:     500,
		RetentionSchedule: "0 3 * * *",
		MaxConcurrentJobs: 4,
	}
}

func (c *Configuration) Validate() error {
	if c.RunRetentionHours < 0 {
		return errors.New("run_retention_hours must not be negative")
	}
	if c.MaxRunsPerJob < 0 {
		return errors.New("max_runs_per_job must not be negative")
	}
	if c.MaxConcurrentJobs < 1 {
		return errors.New("max_concurrent_jobs must be at least 1")
	}
	if c.RetentionSchedule == "" {
		return errors.New("retention_schedule is required")
	}
	return nil
}

// CurrentConfiguration returns the configuration in effect. Callers must not
// modify it.
func CurrentConfiguration() *Configuration {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

func SetConfiguration(c *Configuration) {
	configMu.Lock()
	defer configMu.Unlock()
	config = c
}

// InitializeConfiguration loads the configuration file at path, writing the
// defaults to it first when it does not exist.
func InitializeConfiguration(path string) (*Configuration, error) {
	c, err := LoadConfiguration(path)
	if errors.Is(err, fs.ErrNotExist) {
		c = DefaultConfiguration()
		if err := writeConfiguration(path, c); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	SetConfiguration(c)
	return c, nil
}

func LoadConfiguration(path string) (*Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfiguration()
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

func UpdateConfiguration(path string, c *Configuration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := writeConfiguration(path, c); err != nil {
		return err
	}
	SetConfiguration(c)
	return nil
}

func writeConfiguration(path string, c *Configuration) error {
	b, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
