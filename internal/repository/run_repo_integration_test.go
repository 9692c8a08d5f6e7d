//go:build integration
// +build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cpjust/shopcheck/internal/models"
	"github.com/cpjust/shopcheck/internal/repository/testutil"
)

func finishedRun(t *testing.T, driver string, errorKinds ...string) *models.Run {
	t.Helper()
	run, err := models.NewRun(driver, "http://localhost:8080/echo-fit-compression-short.html")
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}
	names := []string{
		"checkProductInfo_verifyTitleAndPrice",
		"addToCart_verifyRequiredFieldValidationErrors",
		"addToCart_selectValidOptions_verifyAddedToCart",
	}
	for i, kind := range errorKinds {
		if _, err := run.AddResult(names[i%len(names)], kind, kind, time.Duration(i+1)*500*time.Millisecond); err != nil {
			t.Fatalf("AddResult() error = %v", err)
		}
	}
	if err := run.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	return run
}

func TestRunRepository_SaveAndGetRun_Integration(t *testing.T) {
	schema := testutil.NewSchema(t)
	repo := NewRunRepositoryWithDB(schema.DB)

	tests := []struct {
		name       string
		driver     string
		errorKinds []string
		wantStatus models.RunStatus
	}{
		{"all scenarios passed", "playwright", []string{"", "", ""}, models.RunStatusPassed},
		{"add to cart failed", "chromedp", []string{"", "", "AssertionMismatch"}, models.RunStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			run := finishedRun(t, tt.driver, tt.errorKinds...)

			// WHEN
			if err := repo.SaveRun(run); err != nil {
				t.Fatalf("SaveRun() error = %v", err)
			}
			got, err := repo.GetRun(run.ID)

			// THEN
			if err != nil {
				t.Fatalf("GetRun() error = %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if got.FinishedAt.IsZero() {
				t.Error("Expected FinishedAt to be stored")
			}
			if len(got.Results) != len(tt.errorKinds) {
				t.Fatalf("Expected %d results, got %d", len(tt.errorKinds), len(got.Results))
			}
			for i, res := range got.Results {
				want := run.Results[i]
				if res.Scenario != want.Scenario || res.Position != i {
					t.Errorf("Result %d: expected %s at %d, got %s at %d", i, want.Scenario, i, res.Scenario, res.Position)
				}
				if res.Passed != want.Passed || res.ErrorKind != want.ErrorKind {
					t.Errorf("Result %d: expected passed=%t kind=%q, got passed=%t kind=%q",
						i, want.Passed, want.ErrorKind, res.Passed, res.ErrorKind)
				}
				if res.Duration != want.Duration {
					t.Errorf("Result %d: expected duration %s, got %s", i, want.Duration, res.Duration)
				}
			}
		})
	}
}

func TestRunRepository_SaveRunIsAtomic_Integration(t *testing.T) {
	schema := testutil.NewSchema(t)
	repo := NewRunRepositoryWithDB(schema.DB)

	// GIVEN a run whose second result collides with the first on its primary key
	run := finishedRun(t, "playwright", "", "ElementNotFound", "")
	run.Results[1].ID = run.Results[0].ID

	// WHEN
	err := repo.SaveRun(run)

	// THEN nothing from the run is left behind
	if err == nil {
		t.Fatal("Expected SaveRun to fail on the duplicate result")
	}
	if n := schema.Count(t, "runs"); n != 0 {
		t.Errorf("Expected no runs after rollback, got %d", n)
	}
	if n := schema.Count(t, "scenario_results"); n != 0 {
		t.Errorf("Expected no results after rollback, got %d", n)
	}
	if _, err := repo.GetRun(run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepository_NotFound_Integration(t *testing.T) {
	schema := testutil.NewSchema(t)
	repo := NewRunRepositoryWithDB(schema.DB)

	if _, err := repo.GetRun(uuid.New().String()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepository_ListRuns_Integration(t *testing.T) {
	schema := testutil.NewSchema(t)
	repo := NewRunRepositoryWithDB(schema.DB)

	var ids []string
	for i := 0; i < 3; i++ {
		run := finishedRun(t, "playwright", "")
		run.StartedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if err := repo.SaveRun(run); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("Expected newest runs first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}
