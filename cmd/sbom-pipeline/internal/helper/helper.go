// Package helper holds flags and utilities shared by the sbom-pipeline commands.
package helper

import (
	"io"
	"os"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output"
	"github.com/sbom-pipeline/sbom-pipeline/internal/pipeline"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ConfigFlag is the --config flag accepted by every command that reads the configuration
func ConfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:      "config",
		Usage:     "set/override config file (defaults to " + config.SBOMPipelineConfigName + " in the working directory)",
		TakesFile: true,
	}
}

// LoadConfig loads the configuration from the path given by the --config flag
func LoadConfig(cmd *cli.Command) (config.Config, error) {
	return config.Load(cmd.String("config"))
}

// TerminalWidth returns the width of the terminal w is attached to, or 0 if
// it is not a terminal
func TerminalWidth(w io.Writer) int {
	stdoutAsFile, ok := w.(*os.File)
	if !ok {
		return 0
	}

	termWidth, _, err := term.GetSize(int(stdoutAsFile.Fd()))
	if err != nil { // If output is not a terminal,
		return 0
	}

	return termWidth
}

// PipelineFlags are the flags for the settings a pipeline run can take from
// either the command line or the configuration
func PipelineFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag(),
		&cli.StringFlag{
			Name:      "tool-path",
			Usage:     "path to the Dependency-Check install directory, overriding the configured one",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "nvd-api-key",
			Usage: "NVD API key used by Dependency-Check, overriding the configured one",
		},
		&cli.StringFlag{
			Name:      "report-path",
			Usage:     "directory to write the reports and BOM to (defaults to a timestamped directory under ./reports)",
			TakesFile: true,
		},
	}
}

// PipelineOptions builds the options for a pipeline run from the flags of cmd
func PipelineOptions(cmd *cli.Command, cfg config.Config, scanPath, subdir string) pipeline.Options {
	return pipeline.Options{
		Config:     cfg,
		ToolPath:   cmd.String("tool-path"),
		NVDAPIKey:  cmd.String("nvd-api-key"),
		ScanPath:   scanPath,
		Subdir:     subdir,
		ReportPath: cmd.String("report-path"),
	}
}

// PrintPipelineResult reports what a pipeline run produced, even if it failed part way
func PrintPipelineResult(result *pipeline.Result, stdout io.Writer) {
	if result == nil {
		return
	}

	cmdlogger.Infof("Reports saved to: %s", result.ReportDir)
	output.PrintSummaryTable(result.Summary, stdout, TerminalWidth(stdout))

	if result.Published != nil {
		action := "existing"
		if result.Published.Created {
			action = "new"
		}
		cmdlogger.Infof("Published to %s project %s %s (%s)", action,
			result.Published.Project.Name, result.Published.Project.Version, result.Published.Project.UUID)
	}
}
