// Package pipeline runs the scan, convert and upload steps that take a source
// directory to a BOM published on Dependency-Track.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output"
)

const (
	// BOMFileName is the name of the converted BOM within the report directory
	BOMFileName = "bom.json"
	// UnknownVersion is the project version used when the directory name has none
	UnknownVersion = "unknown"
	// DefaultReportRoot is the directory report directories are created in by default
	DefaultReportRoot = "reports"

	reportTimestampFormat = "20060102_150405"
)

var (
	// ErrStepFailed wraps the error of whichever step stopped the pipeline
	ErrStepFailed = errors.New("pipeline step failed")
	// ErrMissingOption is returned when a required setting is neither passed nor configured
	ErrMissingOption = errors.New("missing required option")
)

type Options struct {
	Config config.Config

	// ToolPath and NVDAPIKey override the values in Config when set
	ToolPath  string
	NVDAPIKey string

	ScanPath string
	Subdir   string
	// ReportPath is the directory the reports and BOM are written to, defaulting
	// to a timestamped directory under DefaultReportRoot
	ReportPath string

	// Now is used to name the default report directory, and defaults to time.Now
	Now func() time.Time
}

// Result describes what a completed pipeline run produced
type Result struct {
	ReportDir string
	BOMPath   string
	Summary   output.Summary
	Published *PublishResult
}

// ParseProjectInfo splits a directory name like "webapp-2.1.0" on its first
// hyphen into a project name and version. Names without a hyphen get the
// version UnknownVersion.
func ParseProjectInfo(subdir string) (name, version string) {
	name, version, found := strings.Cut(subdir, "-")
	if !found {
		return subdir, UnknownVersion
	}

	return name, version
}

// DefaultReportPath is where the reports for the given project are written when
// no report path is given
func DefaultReportPath(name, version string, now time.Time) string {
	return filepath.Join(DefaultReportRoot, fmt.Sprintf("%s_%s_%s", name, version, now.Format(reportTimestampFormat)))
}

func stepFailed(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStepFailed, step, err)
}

// Run scans ScanPath/Subdir with Dependency-Check, converts the report into a
// CycloneDX BOM, and publishes it to Dependency-Track. The first step to fail
// stops the pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	toolPath := opts.ToolPath
	if toolPath == "" {
		toolPath = opts.Config.DependencyCheck.ToolPath
	}
	if toolPath == "" {
		return nil, fmt.Errorf("%w: dependency-check tool path is not set", ErrMissingOption)
	}

	nvdAPIKey := opts.NVDAPIKey
	if nvdAPIKey == "" {
		nvdAPIKey = opts.Config.DependencyCheck.NVDAPIKey
	}
	if nvdAPIKey == "" {
		return nil, fmt.Errorf("%w: NVD API key is not set", ErrMissingOption)
	}

	if opts.ScanPath == "" || opts.Subdir == "" {
		return nil, fmt.Errorf("%w: both a scan path and a sub-directory are required", ErrMissingOption)
	}

	name, version := ParseProjectInfo(opts.Subdir)
	cmdlogger.Infof("Project: %s, version: %s, scanning: %s", name, version, opts.Subdir)

	reportDir := opts.ReportPath
	if reportDir == "" {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		reportDir = DefaultReportPath(name, version, now())
	}

	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	cmdlogger.Infof("Step 1: running dependency-check scan")
	scan, err := depcheck.Run(ctx, depcheck.ScanOptions{
		ToolPath:  toolPath,
		ScanPath:  filepath.Join(opts.ScanPath, opts.Subdir),
		Project:   opts.Subdir,
		OutputDir: reportDir,
		NVDAPIKey: nvdAPIKey,
		ExtraArgs: opts.Config.DependencyCheck.ExtraArgs,
	})
	if err != nil {
		return nil, stepFailed("scan", err)
	}

	cmdlogger.Infof("Step 2: converting to CycloneDX")
	bomPath := filepath.Join(reportDir, BOMFileName)
	bom, err := output.ConvertFile(scan.ReportPath, bomPath)
	if err != nil {
		return nil, stepFailed("convert", err)
	}
	cmdlogger.Infof("Wrote CycloneDX BOM to %s", bomPath)

	result := &Result{
		ReportDir: reportDir,
		BOMPath:   bomPath,
		Summary:   output.Summarize(bom),
	}

	cmdlogger.Infof("Step 3: uploading to Dependency-Track")
	published, err := Publish(ctx, opts.Config.DependencyTrack, name, version, bomPath)
	if err != nil {
		return result, stepFailed("upload", err)
	}
	result.Published = published

	cmdlogger.Infof("Pipeline completed")

	return result, nil
}
