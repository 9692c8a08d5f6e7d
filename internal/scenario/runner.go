package scenario

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/page"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// Result is the outcome of one scenario on one driver.
type Result struct {
	Scenario string
	Driver   string
	Err      error
	Kind     string
	Started  time.Time
	Duration time.Duration
}

// Passed reports whether the scenario finished without error.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Runner executes scenarios one at a time, each in a fresh session on a shared
// launcher.
type Runner struct {
	Launcher browser.Launcher
	Catalog  *locator.Catalog
	// Throttle is applied right after the page has loaded. Zero leaves the
	// network alone.
	Throttle throttle.Conditions
	// URL replaces the catalog's url entry when set.
	URL string
	Log logrus.FieldLogger
}

// Run executes scenarios in order. A failure never stops the remaining ones.
func (r *Runner) Run(scenarios ...Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.RunOne(s))
	}
	return results
}

// RunOne executes a single scenario. Its session is closed exactly once
// whatever happens inside the steps, panics included.
func (r *Runner) RunOne(s Scenario) Result {
	res := Result{Scenario: s.Name, Driver: r.Launcher.Name(), Started: time.Now()}
	log := r.Log.WithFields(logrus.Fields{"scenario": s.Name, "driver": res.Driver})

	log.Info("Running scenario")
	res.Err = r.execute(s, log)
	res.Duration = time.Since(res.Started)
	res.Kind = Kind(res.Err)

	if res.Passed() {
		log.WithField("duration", res.Duration).Info("Scenario passed")
	} else {
		log.WithError(res.Err).WithField("kind", res.Kind).Error("Scenario failed")
	}
	return res
}

func (r *Runner) execute(s Scenario, log logrus.FieldLogger) (err error) {
	if err := r.Catalog.Require(s.Keys...); err != nil {
		return err
	}
	url, err := r.TargetURL()
	if err != nil {
		return err
	}

	session := r.Launcher.NewSession()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scenario panicked: %v", rec)
		}
		if cerr := session.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close session")
		}
	}()

	if err := session.Create(); err != nil {
		return err
	}
	if err := session.Navigate(url); err != nil {
		return err
	}
	if !r.Throttle.IsZero() {
		if err := session.Throttle(r.Throttle); err != nil {
			return err
		}
	}

	return s.Steps(page.New(session, r.Catalog, log))
}

// TargetURL returns URL when set, otherwise the catalog's url entry.
func (r *Runner) TargetURL() (string, error) {
	if r.URL != "" {
		return r.URL, nil
	}
	return r.Catalog.Resolve(locator.URL)
}
