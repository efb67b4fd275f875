package depcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"golang.org/x/text/encoding/unicode"
)

// ReportFileName is the name Dependency-Check gives its JSON report
const ReportFileName = "dependency-check-report.json"

var (
	// ErrScannerNotFound is returned when no Dependency-Check launcher script exists in the tool path
	ErrScannerNotFound = errors.New("dependency-check executable not found")
	// ErrScanFailed is returned when Dependency-Check exits with a non-zero code
	ErrScanFailed = errors.New("dependency-check scan failed")
)

// ScanOptions describe a single Dependency-Check invocation
type ScanOptions struct {
	// ToolPath is the Dependency-Check install directory, or its bin directory
	ToolPath string
	// ScanPath is the directory to scan
	ScanPath string
	// Project is the project name recorded in the report
	Project string
	// OutputDir is where the HTML and JSON reports are written
	OutputDir string
	NVDAPIKey string
	// ExtraArgs are appended after the standard arguments
	ExtraArgs []string
}

// Args returns the command line arguments passed to the launcher script
func (o ScanOptions) Args() []string {
	args := []string{
		"--scan", o.ScanPath,
		"--format", "HTML",
		"--format", "JSON",
		"--project", o.Project,
		"--out", o.OutputDir,
	}

	if o.NVDAPIKey != "" {
		args = append(args, "--nvdApiKey", o.NVDAPIKey)
	}

	args = append(args, "--enableExperimental", "--enableRetired")

	return append(args, o.ExtraArgs...)
}

// redactedArgs returns Args with the NVD API key masked, for logging
func (o ScanOptions) redactedArgs() []string {
	args := o.Args()
	for i := range args {
		if i > 0 && args[i-1] == "--nvdApiKey" {
			args[i] = "****"
		}
	}

	return args
}

// ReportPath is the path of the JSON report the scan will produce
func (o ScanOptions) ReportPath() string {
	return filepath.Join(o.OutputDir, ReportFileName)
}

// ScriptName is the name of the Dependency-Check launcher for the current platform
func ScriptName() string {
	if runtime.GOOS == "windows" {
		return "dependency-check.bat"
	}

	return "dependency-check.sh"
}

// FindScript locates the launcher script within toolPath, which may either be
// the install directory or its bin directory
func FindScript(toolPath string) (string, error) {
	for _, candidate := range []string{
		filepath.Join(toolPath, ScriptName()),
		filepath.Join(toolPath, "bin", ScriptName()),
	} {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w in %s", ErrScannerNotFound, toolPath)
}

// Result holds the execution result of a scan.
type Result struct {
	Stdout     string
	Stderr     string
	Duration   time.Duration
	ExitCode   int
	ReportPath string
}

// Run executes Dependency-Check with the given options, returning once the
// process has exited. A non-zero exit code results in an error wrapping
// ErrScanFailed, with the captured stderr included in the message.
func Run(ctx context.Context, opts ScanOptions) (Result, error) {
	script, err := FindScript(opts.ToolPath)
	if err != nil {
		return Result{ExitCode: 127}, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	cmdlogger.Infof("Running dependency-check: %s %s", script, strings.Join(opts.redactedArgs(), " "))

	start := time.Now()
	//nolint:gosec // the script path comes from the user's own configuration
	cmd := exec.CommandContext(ctx, script, opts.Args()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	res := Result{
		Stdout:     decodeOutput(stdout.Bytes()),
		Stderr:     decodeOutput(stderr.Bytes()),
		Duration:   time.Since(start),
		ReportPath: opts.ReportPath(),
	}

	if err == nil {
		cmdlogger.Infof("dependency-check scan completed in %s", res.Duration.Round(time.Second))
		if res.Stdout != "" {
			cmdlogger.Debugf("dependency-check output: %s", res.Stdout)
		}

		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = 124
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = 127
	default:
		res.ExitCode = 1
	}

	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = err.Error()
	}

	return res, fmt.Errorf("%w (exit code %d): %s", ErrScanFailed, res.ExitCode, detail)
}

// decodeOutput converts process output to valid UTF-8, replacing invalid bytes
func decodeOutput(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}

	return string(decoded)
}
