package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/dtrack"
)

// PublishResult describes a BOM accepted by Dependency-Track
type PublishResult struct {
	ServerVersion string
	Project       dtrack.Project
	// Created is true if the project did not exist before the upload
	Created bool
	// Token identifies the server side processing of the BOM
	Token string
}

// Publish uploads the BOM at bomPath to the Dependency-Track project with the
// given name and version, creating the project first if needed
func Publish(ctx context.Context, cfg config.DependencyTrack, name, version, bomPath string) (*PublishResult, error) {
	if !cfg.IsComplete() {
		return nil, fmt.Errorf("%w: Dependency-Track server URL and API key must both be configured", ErrMissingOption)
	}

	bom, err := os.ReadFile(bomPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM: %w", err)
	}

	client := dtrack.NewClient(cfg.ServerURL, cfg.APIKey)

	serverVersion, err := client.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not connect to Dependency-Track at %s: %w", cfg.ServerURL, err)
	}
	cmdlogger.Infof("Connected to Dependency-Track v%s", serverVersion.Version)

	project, created, err := client.FindOrCreateProject(ctx, name, version, cfg.Tags())
	if err != nil {
		return nil, err
	}

	if created {
		cmdlogger.Infof("Created project %s %s (%s)", project.Name, project.Version, project.UUID)
	} else {
		cmdlogger.Infof("Found existing project %s %s (%s)", project.Name, project.Version, project.UUID)
	}

	uploaded, err := client.UploadBOM(ctx, project.UUID, filepath.Base(bomPath), bom)
	if err != nil {
		return nil, fmt.Errorf("failed to upload BOM: %w", err)
	}
	cmdlogger.Infof("Uploaded %s to project %s %s", filepath.Base(bomPath), name, version)
	if uploaded.Token != "" {
		cmdlogger.Debugf("Processing token: %s", uploaded.Token)
	}

	return &PublishResult{
		ServerVersion: serverVersion.Version,
		Project:       *project,
		Created:       created,
		Token:         uploaded.Token,
	}, nil
}
