// hcsfocus - HCS ManageOne → FOCUS transformation service
//
// Usage:
//   hcsfocus serve [options]
//   hcsfocus transform --input metrics.json [options]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"hcs-focus/api"
	"hcs-focus/internal/hcs"
	"hcs-focus/internal/mapping"
	"hcs-focus/internal/transform"
	"hcs-focus/pkg/focus"
	"hcs-focus/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes for CI/CD integration.
const (
	exitSuccess     = 0
	exitConfigError = 1
	exitRejected    = 2
)

func main() {
	app := &cli.App{
		Name:    "hcsfocus",
		Usage:   "Convert HCS ManageOne metering records to the FOCUS specification",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"HCSFOCUS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "billing-currency",
				Value:   "NGN",
				Usage:   "Fallback ISO 4217 currency when source values carry no label (empty to require labels)",
				EnvVars: []string{"HCSFOCUS_BILLING_CURRENCY"},
			},
		},

		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the transform HTTP API server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Value:   8080,
						Usage:   "Listen port",
						EnvVars: []string{"HCSFOCUS_PORT"},
					},
					&cli.StringFlag{
						Name:    "sc-endpoint",
						Usage:   "SC Northbound Interface base URL",
						EnvVars: []string{"HCSFOCUS_SC_ENDPOINT"},
					},
					&cli.StringFlag{
						Name:    "sc-token",
						Usage:   "Pre-issued auth token for the SC API",
						EnvVars: []string{"HCSFOCUS_SC_TOKEN"},
					},
					&cli.IntFlag{
						Name:    "sc-timeout",
						Value:   30,
						Usage:   "SC API request timeout in seconds",
						EnvVars: []string{"HCSFOCUS_SC_TIMEOUT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "transform",
				Usage: "Transform an exported metrics envelope offline",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Path to a query-metrics-data JSON export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the FOCUS batch here instead of stdout",
					},
					&cli.StringFlag{Name: "tenant-name", Usage: "Tenant name for BillingAccountName"},
					&cli.StringFlag{Name: "tenant-id", Usage: "Tenant ID for BillingAccountId"},
					&cli.StringFlag{Name: "vdc-name", Usage: "VDC name for SubAccountName"},
					&cli.StringFlag{Name: "vdc-id", Usage: "VDC ID for SubAccountId"},
				},
				Action: runTransform,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
}

func buildRegistry(c *cli.Context) (*mapping.Registry, error) {
	return mapping.DefaultRegistry(mapping.Options{
		DefaultCurrency: c.String("billing-currency"),
	})
}

func runServe(c *cli.Context) error {
	log := platform.InitLogger(c.String("log-level"))

	registry, err := buildRegistry(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("rule registry: %v", err), exitConfigError)
	}

	endpoint := c.String("sc-endpoint")
	if endpoint == "" {
		return cli.Exit("--sc-endpoint is required", exitConfigError)
	}

	fetcher := hcs.NewClient(
		endpoint,
		c.String("sc-token"),
		time.Duration(c.Int("sc-timeout"))*time.Second,
		log,
	)

	config := api.ConfigFromEnv()
	config.Port = c.Int("port")

	server := api.NewServer(fetcher, registry, config, log)
	if err := server.StartWithGracefulShutdown(); err != nil {
		platform.LogFatal(log, "server failed", err)
	}
	return nil
}

// offlineBatch is the transform command's output document.
type offlineBatch struct {
	Total    int             `json:"total"`
	Accepted int             `json:"accepted"`
	Rejected int             `json:"rejected"`
	Warned   int             `json:"warned"`
	Records  []*focus.Record `json:"records"`
	Issues   []recordIssues  `json:"issues"`
}

type recordIssues struct {
	Index    int             `json:"index"`
	Accepted bool            `json:"accepted"`
	Issues   []mapping.Issue `json:"issues"`
}

func runTransform(c *cli.Context) error {
	log := platform.InitLogger(c.String("log-level"))

	registry, err := buildRegistry(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("rule registry: %v", err), exitConfigError)
	}

	sources, err := hcs.LoadMetricsFile(c.String("input"))
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	sources = hcs.MergeContext(sources, hcs.AccountContext{
		TenantName: c.String("tenant-name"),
		TenantID:   c.String("tenant-id"),
		VDCName:    c.String("vdc-name"),
		VDCID:      c.String("vdc-id"),
	})

	result := transform.New(registry, log).Transform(sources)

	batch := offlineBatch{
		Total:    result.Total,
		Accepted: result.Accepted,
		Rejected: result.Rejected,
		Warned:   result.Warned,
		Records:  make([]*focus.Record, 0, result.Accepted),
		Issues:   make([]recordIssues, 0),
	}
	for i, outcome := range result.Outcomes {
		if !outcome.Rejected() {
			batch.Records = append(batch.Records, outcome.Record)
		}
		if len(outcome.Issues) > 0 {
			batch.Issues = append(batch.Issues, recordIssues{
				Index:    i,
				Accepted: !outcome.Rejected(),
				Issues:   outcome.Issues,
			})
		}
	}

	out, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return cli.Exit(fmt.Sprintf("encode batch: %v", err), exitConfigError)
	}

	if path := c.String("output"); path != "" {
		if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("write output: %v", err), exitConfigError)
		}
	} else {
		fmt.Println(string(out))
	}

	if result.Rejected > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records rejected", result.Rejected, result.Total), exitRejected)
	}
	return nil
}
