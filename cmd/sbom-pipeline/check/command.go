// Package check implements the command that verifies the configuration and
// the services the pipeline depends on.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/helper"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
	"github.com/sbom-pipeline/sbom-pipeline/internal/dtrack"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// ErrChecksFailed is returned when at least one check did not pass
var ErrChecksFailed = errors.New("configuration checks failed")

type status string

const (
	statusOK      status = "ok"
	statusFailed  status = "failed"
	statusSkipped status = "skipped"
)

type result struct {
	Name   string
	Status status
	Detail string
}

type check struct {
	name string
	run  func(ctx context.Context, cfg config.Config) (status, string)
}

var checks = []check{
	{name: "Configuration file", run: checkConfigFile},
	{name: "Dependency-Check", run: checkScanner},
	{name: "NVD API key", run: checkNVDAPIKey},
	{name: "Dependency-Track", run: checkDependencyTrack},
}

func Command(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "checks the configuration, the Dependency-Check install and the connection to Dependency-Track",
		Flags: []cli.Flag{
			helper.ConfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action(ctx, cmd, stdout)
		},
	}
}

func action(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		return err
	}

	results := run(ctx, cfg)
	printResults(results, stdout, helper.TerminalWidth(stdout))

	failed := 0
	for _, r := range results {
		if r.Status == statusFailed {
			failed++
			cmdlogger.Warnf("%s: %s", r.Name, r.Detail)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrChecksFailed, failed, len(results))
	}

	cmdlogger.Infof("All checks passed")

	return nil
}

// run executes every check concurrently, returning their results in a fixed order
func run(ctx context.Context, cfg config.Config) []result {
	results := make([]result, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			s, detail := c.run(ctx, cfg)
			results[i] = result{Name: c.name, Status: s, Detail: detail}

			return nil
		})
	}

	// checks report their failures as results
	_ = g.Wait()

	return results
}

func printResults(results []result, stdout io.Writer, terminalWidth int) {
	outputTable := output.NewTable(stdout, terminalWidth)
	outputTable.AppendHeader(table.Row{"Check", "Status", "Detail"})

	for _, r := range results {
		outputTable.AppendRow(table.Row{r.Name, string(r.Status), r.Detail})
	}

	outputTable.Render()
}

func checkConfigFile(_ context.Context, cfg config.Config) (status, string) {
	if cfg.LoadPath == "" {
		return statusSkipped, "no config file found, using flags and environment only"
	}

	return statusOK, cfg.LoadPath
}

func checkScanner(_ context.Context, cfg config.Config) (status, string) {
	if cfg.DependencyCheck.ToolPath == "" {
		return statusFailed, "DependencyCheck.ToolPath is not set"
	}

	script, err := depcheck.FindScript(cfg.DependencyCheck.ToolPath)
	if err != nil {
		return statusFailed, err.Error()
	}

	return statusOK, script
}

func checkNVDAPIKey(_ context.Context, cfg config.Config) (status, string) {
	if cfg.DependencyCheck.NVDAPIKey == "" {
		return statusFailed, "not set, add DependencyCheck.NVDAPIKey or set " + config.EnvNVDAPIKey
	}

	return statusOK, "set"
}

func checkDependencyTrack(ctx context.Context, cfg config.Config) (status, string) {
	if !cfg.DependencyTrack.IsComplete() {
		return statusFailed, "DependencyTrack.ServerURL and DependencyTrack.APIKey must both be set"
	}

	v, err := dtrack.NewClient(cfg.DependencyTrack.ServerURL, cfg.DependencyTrack.APIKey).Version(ctx)
	if err != nil {
		return statusFailed, err.Error()
	}

	return statusOK, fmt.Sprintf("v%s at %s", v.Version, cfg.DependencyTrack.ServerURL)
}
