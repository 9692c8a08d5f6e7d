package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/browser/cdpdriver"
	"github.com/cpjust/shopcheck/internal/browser/pwdriver"
	"github.com/cpjust/shopcheck/internal/config"
	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/report"
	"github.com/cpjust/shopcheck/internal/scenario"
	"github.com/cpjust/shopcheck/internal/services"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// LauncherFactory builds the launcher for a driver name.
type LauncherFactory func(driver string, opts browser.Options, log logrus.FieldLogger) (browser.Launcher, error)

// RunDependencies holds everything a scenario run needs
type RunDependencies struct {
	Browser   config.BrowserConfig
	Throttle  throttle.Conditions
	Catalog   *locator.Catalog
	URL       string
	Scenarios []scenario.Scenario
	// Recorder stores the run when set.
	Recorder    services.RunService
	NewLauncher LauncherFactory
	Out         io.Writer
	Log         logrus.FieldLogger
}

// NewLauncher returns the launcher for driver without starting it.
func NewLauncher(driver string, opts browser.Options, log logrus.FieldLogger) (browser.Launcher, error) {
	switch driver {
	case config.DriverPlaywright:
		return pwdriver.NewLauncher(opts, log), nil
	case config.DriverChromedp:
		return cdpdriver.NewLauncher(opts, log), nil
	default:
		return nil, config.ValidateDriver(driver)
	}
}

// RunScenarios starts the browser, runs every scenario, prints the report and
// records the run. Scenario failures are reported through the Summary; the
// error is reserved for failures to run at all.
func RunScenarios(deps RunDependencies) (report.Summary, error) {
	newLauncher := deps.NewLauncher
	if newLauncher == nil {
		newLauncher = NewLauncher
	}
	log := deps.Log.WithField("driver", deps.Browser.Driver)

	launcher, err := newLauncher(deps.Browser.Driver, deps.Browser.Options, log)
	if err != nil {
		return report.Summary{}, err
	}
	if err := launcher.Start(); err != nil {
		return report.Summary{}, fmt.Errorf("failed to start %s: %w", launcher.Name(), err)
	}
	defer func() {
		if err := launcher.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop browser")
		}
	}()

	runner := &scenario.Runner{
		Launcher: launcher,
		Catalog:  deps.Catalog,
		Throttle: deps.Throttle,
		URL:      deps.URL,
		Log:      log,
	}
	if !deps.Throttle.IsZero() {
		log.WithField("throttle", deps.Throttle.String()).Info("Network throttling enabled")
	}

	results := runner.Run(deps.Scenarios...)
	summary := report.Print(deps.Out, results)

	if deps.Recorder != nil {
		target, err := runner.TargetURL()
		if err != nil {
			return summary, err
		}
		run, err := deps.Recorder.Record(launcher.Name(), target, results)
		if err != nil {
			return summary, fmt.Errorf("failed to record run: %w", err)
		}
		log.WithField("run", run.ID).Info("Results recorded")
	}

	return summary, nil
}
