package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/models"
	"github.com/cpjust/shopcheck/internal/scenario"
)

// RunRepository defines the interface for run persistence
type RunRepository interface {
	SaveRun(run *models.Run) error
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]*models.Run, error)
}

// RunService records scenario runs
type RunService interface {
	Record(driver, targetURL string, results []scenario.Result) (*models.Run, error)
	GetRun(id string) (*models.Run, error)
	History(limit int) ([]*models.Run, error)
}

// RunServiceImpl implements RunService
type RunServiceImpl struct {
	runRepo RunRepository
	log     logrus.FieldLogger
}

// NewRunService creates a new run service
func NewRunService(runRepo RunRepository, log logrus.FieldLogger) RunService {
	return &RunServiceImpl{
		runRepo: runRepo,
		log:     log,
	}
}

// Record builds a finished run from the scenario results and stores it in a
// single write, so a failed write never leaves a partial run behind.
func (s *RunServiceImpl) Record(driver, targetURL string, results []scenario.Result) (*models.Run, error) {
	run, err := models.NewRun(driver, targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}
	if len(results) == 0 {
		return nil, models.ErrNoResults
	}
	run.StartedAt = results[0].Started

	for _, res := range results {
		message := ""
		if res.Err != nil {
			message = res.Err.Error()
		}
		if _, err := run.AddResult(res.Scenario, res.Kind, message, res.Duration); err != nil {
			return nil, fmt.Errorf("invalid result %q: %w", res.Scenario, err)
		}
	}
	if err := run.Finish(); err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}

	if err := s.runRepo.SaveRun(run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run":    run.ID,
		"driver": run.Driver,
		"status": run.Status,
	}).Info("Run recorded")

	return run, nil
}

// GetRun retrieves a recorded run with its results
func (s *RunServiceImpl) GetRun(id string) (*models.Run, error) {
	run, err := s.runRepo.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// History returns the latest recorded runs
func (s *RunServiceImpl) History(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.runRepo.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
