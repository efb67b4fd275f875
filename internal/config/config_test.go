package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	got, err := config.Load("./testdata/valid.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := config.Config{
		DefaultScanPath: "/srv/projects",
		DependencyCheck: config.DependencyCheck{
			ToolPath:  "/opt/dependency-check/bin",
			NVDAPIKey: "nvd-key",
		},
		DependencyTrack: config.DependencyTrack{
			ServerURL: "https://dtrack.example.com",
			APIKey:    "dtrack-key",
		},
		LoadPath: "./testdata/valid.toml",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := config.Load("./testdata/unknown-keys.toml")
	if err == nil {
		t.Fatalf("expected an error")
	}

	for _, key := range []string{"DependencyCheck.Format", "Jenkins.URL"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to mention %s, got %v", key, err)
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.Load("./testdata/invalid.toml")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	t.Parallel()

	_, err := config.Load("./testdata/does-not-exist.toml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not exist error, got %v", err)
	}
}

//nolint:paralleltest // changes the working directory and the environment
func TestLoad_DefaultMissingWithEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvNVDAPIKey, "env-nvd")
	t.Setenv(config.EnvDependencyTrackAPIKey, "env-dtrack")

	got, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := config.Config{
		DependencyCheck: config.DependencyCheck{NVDAPIKey: "env-nvd"},
		DependencyTrack: config.DependencyTrack{APIKey: "env-dtrack"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

//nolint:paralleltest // changes the working directory
func TestLoad_DefaultName(t *testing.T) {
	dir := t.TempDir()
	content := "[DependencyTrack]\nServerURL = \"http://localhost:8081\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.SBOMPipelineConfigName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.DependencyTrack.ServerURL != "http://localhost:8081" {
		t.Errorf("unexpected server url %q", got.DependencyTrack.ServerURL)
	}
	if got.LoadPath != config.SBOMPipelineConfigName {
		t.Errorf("unexpected load path %q", got.LoadPath)
	}
}

func TestDependencyTrack_Tags(t *testing.T) {
	t.Parallel()

	got, err := config.Load("./testdata/tags.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"nightly"}, got.DependencyTrack.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
	if !got.DependencyTrack.IsComplete() {
		t.Errorf("expected config to be complete")
	}

	if diff := cmp.Diff(config.DefaultProjectTags, config.DependencyTrack{}.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
}
