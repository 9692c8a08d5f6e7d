package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one invocation of the scenario set against one driver and URL.
type Run struct {
	ID         string
	Driver     string
	TargetURL  string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*ScenarioResult
}

// ScenarioResult is the recorded outcome of a single scenario within a run.
type ScenarioResult struct {
	ID        string
	RunID     string
	// Position is the zero-based order in which the scenario ran.
	Position  int
	Scenario  string
	Passed    bool
	ErrorKind string
	Message   string
	Duration  time.Duration
}

// Domain errors
var (
	ErrInvalidDriver           = errors.New("driver cannot be empty")
	ErrInvalidTargetURL        = errors.New("target URL cannot be empty")
	ErrInvalidScenarioName     = errors.New("scenario name cannot be empty")
	ErrInvalidDuration         = errors.New("duration cannot be negative")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
	ErrNoResults               = errors.New("run has no results")
)

// NewRun creates a running run with validation
func NewRun(driver, targetURL string) (*Run, error) {
	if driver == "" {
		return nil, ErrInvalidDriver
	}
	if targetURL == "" {
		return nil, ErrInvalidTargetURL
	}

	return &Run{
		ID:        uuid.New().String(),
		Driver:    driver,
		TargetURL: targetURL,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// AddResult records a scenario outcome. A result with no error kind passed.
func (r *Run) AddResult(scenario, errorKind, message string, duration time.Duration) (*ScenarioResult, error) {
	if r.Status != RunStatusRunning {
		return nil, fmt.Errorf("%w: cannot add results to a %s run", ErrInvalidStatusTransition, r.Status)
	}
	if scenario == "" {
		return nil, ErrInvalidScenarioName
	}
	if duration < 0 {
		return nil, ErrInvalidDuration
	}

	result := &ScenarioResult{
		ID:        uuid.New().String(),
		RunID:     r.ID,
		Position:  len(r.Results),
		Scenario:  scenario,
		Passed:    errorKind == "",
		ErrorKind: errorKind,
		Message:   message,
		Duration:  duration,
	}
	r.Results = append(r.Results, result)
	return result, nil
}

// Finish closes the run. It passes only if every result passed.
func (r *Run) Finish() error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: run is already %s", ErrInvalidStatusTransition, r.Status)
	}
	if len(r.Results) == 0 {
		return ErrNoResults
	}

	r.Status = RunStatusPassed
	for _, res := range r.Results {
		if !res.Passed {
			r.Status = RunStatusFailed
			break
		}
	}
	r.FinishedAt = time.Now()
	return nil
}

// IsRunning returns true if the run has not finished yet
func (r *Run) IsRunning() bool {
	return r.Status == RunStatusRunning
}

// Failures returns the results that did not pass.
func (r *Run) Failures() []*ScenarioResult {
	var failed []*ScenarioResult
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Elapsed returns the wall time of a finished run, or zero while running.
func (r *Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
