package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	internalcli "github.com/cpjust/shopcheck/internal/cli"
	"github.com/cpjust/shopcheck/internal/config"
	"github.com/cpjust/shopcheck/internal/database"
	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/logging"
	"github.com/cpjust/shopcheck/internal/repository"
	"github.com/cpjust/shopcheck/internal/scenario"
	"github.com/cpjust/shopcheck/internal/services"
	"github.com/cpjust/shopcheck/internal/throttle"
)

var version = "0.1.0"

var locatorsFlag = &cli.StringFlag{
	Name:  "locators",
	Usage: "path to a locator properties file (defaults to the bundled catalog)",
}

// loadCatalog reads the --locators file, or the bundled catalog when unset.
func loadCatalog(c *cli.Context) (*locator.Catalog, error) {
	if path := c.String("locators"); path != "" {
		return locator.LoadFile(path)
	}
	return locator.LoadEmbedded(locator.EchoFitCompressionShort)
}

// openRunService connects to Postgres, migrates it and returns the run
// service together with a cleanup that closes the connection.
func openRunService(log logrus.FieldLogger) (services.RunService, func(), error) {
	noop := func() {}
	if !config.PostgresConfigured(os.Getenv) {
		return nil, noop, fmt.Errorf("POSTGRES_* configuration is required")
	}
	if err := database.Connect(os.Getenv); err != nil {
		return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, noop, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return services.NewRunService(repository.NewRunRepository(), log), func() { database.Close() }, nil
}

// buildRunDependencies merges environment configuration with command flags
func buildRunDependencies(c *cli.Context, log logrus.FieldLogger) (internalcli.RunDependencies, func(), error) {
	deps := internalcli.RunDependencies{
		URL: c.String("url"),
		Out: os.Stdout,
		Log: log,
	}
	cleanup := func() {}

	browserConfig, err := config.LoadBrowserConfig(os.Getenv)
	if err != nil {
		return deps, cleanup, err
	}
	if c.IsSet("driver") {
		if err := config.ValidateDriver(c.String("driver")); err != nil {
			return deps, cleanup, err
		}
		browserConfig.Driver = c.String("driver")
	}
	if c.IsSet("headless") {
		browserConfig.Options.Headless = c.Bool("headless")
	}
	deps.Browser = *browserConfig

	throttleEnv := os.Getenv
	if c.IsSet("throttle-profile") {
		throttleEnv = func(key string) string {
			if key == "SHOPCHECK_THROTTLE_PROFILE" {
				return c.String("throttle-profile")
			}
			return os.Getenv(key)
		}
	}
	if deps.Throttle, err = config.LoadThrottleConfig(throttleEnv); err != nil {
		return deps, cleanup, err
	}
	if c.IsSet("download") {
		deps.Throttle.DownloadThroughput = throttle.Int(c.Int("download"))
	}
	if c.IsSet("latency") {
		deps.Throttle.Latency = throttle.Duration(c.Duration("latency"))
	}

	if deps.Catalog, err = loadCatalog(c); err != nil {
		return deps, cleanup, err
	}

	deps.Scenarios = scenario.All()
	if names := c.StringSlice("scenario"); len(names) > 0 {
		if deps.Scenarios, err = scenario.ByName(names...); err != nil {
			return deps, cleanup, err
		}
	}

	if c.Bool("record") {
		if deps.Recorder, cleanup, err = openRunService(log); err != nil {
			return deps, cleanup, fmt.Errorf("--record: %w", err)
		}
	}

	return deps, cleanup, nil
}

// RunCommand returns the run command
func RunCommand(log logrus.FieldLogger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the product page scenarios in a browser",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "driver", Usage: "browser driver: playwright or chromedp"},
			&cli.BoolFlag{Name: "headless", Usage: "run the browser without a window"},
			&cli.StringFlag{Name: "url", Usage: "product page URL (defaults to the catalog's url entry)"},
			locatorsFlag,
			&cli.StringSliceFlag{Name: "scenario", Usage: "scenario to run; repeat for several (default: all)"},
			&cli.StringFlag{
				Name:  "throttle-profile",
				Usage: "network profile applied after page load: " + strings.Join(throttle.ProfileNames(), ", "),
			},
			&cli.IntFlag{Name: "download", Usage: "download throughput in bytes/sec applied after page load"},
			&cli.DurationFlag{Name: "latency", Usage: "added request latency applied after page load"},
			&cli.BoolFlag{Name: "record", Usage: "store the results in Postgres"},
		},
		Action: func(c *cli.Context) error {
			deps, cleanup, err := buildRunDependencies(c, log)
			defer cleanup()
			if err != nil {
				return err
			}

			summary, err := internalcli.RunScenarios(deps)
			if err != nil {
				return err
			}
			if summary.Failed() > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", summary.Failed(), summary.Total), 1)
			}
			return nil
		},
	}
}

// ServeCommand returns the serve command
func ServeCommand(log logrus.FieldLogger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a local replica of the product page",
		Action: func(c *cli.Context) error {
			deps, err := internalcli.NewServerDependencies(config.LoadServerConfig(os.Getenv), log)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand(log logrus.FieldLogger) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List runs stored with --record",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to list"},
		},
		Action: func(c *cli.Context) error {
			runs, cleanup, err := openRunService(log)
			defer cleanup()
			if err != nil {
				return err
			}
			return internalcli.ShowHistory(os.Stdout, runs, c.Int("limit"))
		},
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the results of one recorded run",
				ArgsUsage: "<run-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("history show needs exactly one run id", 2)
					}
					runs, cleanup, err := openRunService(log)
					defer cleanup()
					if err != nil {
						return err
					}
					return internalcli.ShowRun(os.Stdout, runs, c.Args().First())
				},
			},
		},
	}
}

// LocatorsCommand returns the locators command group
func LocatorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "locators",
		Usage: "Inspect the locator catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print every key and selector",
				Flags: []cli.Flag{locatorsFlag},
				Action: func(c *cli.Context) error {
					catalog, err := loadCatalog(c)
					if err != nil {
						return err
					}
					return internalcli.ListLocators(os.Stdout, catalog)
				},
			},
			{
				Name:  "verify",
				Usage: "Check the static selectors against a served page",
				Flags: []cli.Flag{
					locatorsFlag,
					&cli.StringFlag{Name: "url", Usage: "page to fetch (defaults to the catalog's url entry)"},
					&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "HTTP timeout"},
				},
				Action: func(c *cli.Context) error {
					catalog, err := loadCatalog(c)
					if err != nil {
						return err
					}
					url := c.String("url")
					if url == "" {
						if url, err = catalog.Resolve(locator.URL); err != nil {
							return err
						}
					}

					client := &http.Client{Timeout: c.Duration("timeout")}
					missing, err := internalcli.VerifyLocators(c.Context, client, url, catalog, os.Stdout)
					if err != nil {
						return err
					}
					if missing > 0 {
						return cli.Exit(fmt.Sprintf("%d selectors matched nothing", missing), 1)
					}
					return nil
				},
			},
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	log, err := logging.New(os.Getenv("SHOPCHECK_LOG_LEVEL"), os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "shopcheck",
		Usage:   "End-to-end checks for the Echo Fit Compression Short product page",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(log),
			ServeCommand(log),
			HistoryCommand(log),
			LocatorsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
