// Package scan implements the command that runs the full scan, convert and upload pipeline.
package scan

import (
	"context"
	"io"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/helper"
	"github.com/sbom-pipeline/sbom-pipeline/internal/pipeline"
	"github.com/urfave/cli/v3"
)

func Command(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "scans a project directory with Dependency-Check, converts the report and uploads it to Dependency-Track",
		Description: "scans <scan-path>/<subdir>, taking the project name and version from the sub-directory name " +
			"(e.g. \"webapp-2.1.0\" is project \"webapp\" version \"2.1.0\")",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:      "scan-path",
				Usage:     "directory containing the project to scan",
				TakesFile: true,
				Required:  true,
			},
			&cli.StringFlag{
				Name:     "subdir",
				Usage:    "sub-directory of the scan path to scan, named <project>-<version>",
				Required: true,
			},
		}, helper.PipelineFlags()...),
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

	opts := helper.PipelineOptions(cmd, cfg, cmd.String("scan-path"), cmd.String("subdir"))

	result, err := pipeline.Run(ctx, opts)
	helper.PrintPipelineResult(result, stdout)

	return err
}
