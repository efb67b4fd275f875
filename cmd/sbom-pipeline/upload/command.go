// Package upload implements the command that publishes an existing SBOM to Dependency-Track.
package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/helper"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/pipeline"
	"github.com/urfave/cli/v3"
)

func Command(_, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "uploads a CycloneDX SBOM to a Dependency-Track project, creating the project if needed",
		ArgsUsage: "BOM",
		Flags: []cli.Flag{
			helper.ConfigFlag(),
			&cli.StringFlag{
				Name:     "project",
				Usage:    "name of the Dependency-Track project",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "project-version",
				Usage: "version of the Dependency-Track project",
				Value: pipeline.UnknownVersion,
			},
			&cli.StringFlag{
				Name:  "server-url",
				Usage: "Dependency-Track server URL, overriding the configured one",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Dependency-Track API key, overriding the configured one",
			},
		},
		Action: action,
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly 1 argument, the BOM to upload, but got %d", cmd.Args().Len())
	}

	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		return err
	}

	dt := cfg.DependencyTrack
	if url := cmd.String("server-url"); url != "" {
		dt.ServerURL = url
	}
	if key := cmd.String("api-key"); key != "" {
		dt.APIKey = key
	}

	published, err := pipeline.Publish(ctx, dt, cmd.String("project"), cmd.String("project-version"), cmd.Args().First())
	if err != nil {
		return err
	}

	if published.Created {
		cmdlogger.Infof("Project %s %s was created", published.Project.Name, published.Project.Version)
	}

	return nil
}
