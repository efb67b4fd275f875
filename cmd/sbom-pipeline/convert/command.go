// Package convert implements the command that turns a Dependency-Check report into a CycloneDX SBOM.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/helper"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output/sbom"
	"github.com/urfave/cli/v3"
)

// StdoutPath can be given as the output path to write the BOM to stdout
const StdoutPath = "-"

var (
	// ErrInputNotFound is returned when the report to convert does not exist
	ErrInputNotFound = errors.New("input file not found")
	// ErrInvalidInput is returned when the report is not valid JSON, or not a Dependency-Check report
	ErrInvalidInput = errors.New("failed to parse JSON input")
	// ErrConversion is returned for any other failure while converting
	ErrConversion = errors.New("conversion failed")
)

func Command(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "converts a Dependency-Check JSON report into a CycloneDX 1.5 SBOM",
		ArgsUsage: "INPUT OUTPUT",
		Description: "reads the Dependency-Check JSON report at INPUT and writes the equivalent CycloneDX 1.5 " +
			"JSON document to OUTPUT, or to stdout if OUTPUT is \"" + StdoutPath + "\"",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print a table summarizing the converted components and vulnerabilities",
				Value: true,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return action(cmd, stdout)
		},
	}
}

func action(cmd *cli.Command, stdout io.Writer) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected exactly 2 arguments, INPUT and OUTPUT, but got %d", cmd.Args().Len())
	}

	inputPath := cmd.Args().Get(0)
	outputPath := cmd.Args().Get(1)

	if outputPath == StdoutPath {
		// the BOM is the only thing that can be written to stdout
		cmdlogger.SendEverythingToStderr()
	}

	cmdlogger.Infof("Converting %s", inputPath)

	bom, err := convert(inputPath, outputPath, stdout)
	if err != nil {
		return classify(inputPath, err)
	}

	if outputPath == StdoutPath {
		return nil
	}

	cmdlogger.Infof("Wrote CycloneDX BOM to %s", outputPath)

	if cmd.Bool("summary") {
		output.PrintSummaryTable(output.Summarize(bom), stdout, helper.TerminalWidth(stdout))
	}

	return nil
}

func convert(inputPath, outputPath string, stdout io.Writer) (*cyclonedx.BOM, error) {
	if outputPath != StdoutPath {
		return output.ConvertFile(inputPath, outputPath)
	}

	report, err := depcheck.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	bom := sbom.Convert(report)

	return bom, output.PrintCycloneDXResults(bom, stdout)
}

// classify wraps err with the kind of failure it represents
func classify(inputPath string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	case errors.Is(err, depcheck.ErrMalformedJSON), errors.Is(err, depcheck.ErrInvalidReport):
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, inputPath, err)
	default:
		return fmt.Errorf("%w: %w", ErrConversion, err)
	}
}
