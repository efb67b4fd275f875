// Package config manages the configuration for sbom-pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
)

var SBOMPipelineConfigName = "sbom-pipeline.toml"

const (
	// EnvNVDAPIKey overrides DependencyCheck.NVDAPIKey when set
	EnvNVDAPIKey = "SBOM_PIPELINE_NVD_API_KEY"
	// EnvDependencyTrackAPIKey overrides DependencyTrack.APIKey when set
	EnvDependencyTrackAPIKey = "SBOM_PIPELINE_DTRACK_API_KEY"
)

type Config struct {
	// DefaultScanPath is offered as the default answer by the interactive prompt
	DefaultScanPath string          `toml:"DefaultScanPath,omitempty"`
	DependencyCheck DependencyCheck `toml:"DependencyCheck"`
	DependencyTrack DependencyTrack `toml:"DependencyTrack"`
	// The path to config file that this config was loaded from,
	// empty if no file was found
	LoadPath string `toml:"-"`
}

type DependencyCheck struct {
	// ToolPath is the Dependency-Check install directory, or its bin directory
	ToolPath  string `toml:"ToolPath"`
	NVDAPIKey string `toml:"NVDAPIKey"`
	// ExtraArgs are appended to every scanner invocation
	ExtraArgs []string `toml:"ExtraArgs,omitempty"`
}

type DependencyTrack struct {
	ServerURL string `toml:"ServerURL"`
	APIKey    string `toml:"APIKey"`
	// ProjectTags are attached to projects created by the pipeline
	ProjectTags []string `toml:"ProjectTags,omitempty"`
}

// DefaultProjectTags are used when DependencyTrack.ProjectTags is empty
var DefaultProjectTags = []string{"auto-created", "converted-from-dependency-check"}

// Tags returns the tags to attach to newly created projects
func (d DependencyTrack) Tags() []string {
	if len(d.ProjectTags) == 0 {
		return DefaultProjectTags
	}

	return d.ProjectTags
}

// IsComplete reports if enough is configured to talk to a Dependency-Track server
func (d DependencyTrack) IsComplete() bool {
	return d.ServerURL != "" && d.APIKey != ""
}

// Load reads the config file at configPath, falling back to SBOMPipelineConfigName
// in the working directory when configPath is empty.
//
// A missing default config file is not an error, as every setting can also be
// given on the command line, but an explicitly requested file must exist.
func Load(configPath string) (Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = SBOMPipelineConfigName
	}

	config, err := tryLoadConfig(configPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cmdlogger.Debugf("No config file found at %s, using defaults", configPath)
			config = Config{}
		} else {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else {
		cmdlogger.Infof("Loaded config from: %s", config.LoadPath)
	}

	config.applyEnvironment()

	return config, nil
}

func (c *Config) applyEnvironment() {
	if key, ok := os.LookupEnv(EnvNVDAPIKey); ok && key != "" {
		c.DependencyCheck.NVDAPIKey = key
	}
	if key, ok := os.LookupEnv(EnvDependencyTrackAPIKey); ok && key != "" {
		c.DependencyTrack.APIKey = key
	}
	c.DependencyTrack.ServerURL = strings.TrimSuffix(c.DependencyTrack.ServerURL, "/")
}

// tryLoadConfig attempts to parse the config file at the given path as TOML,
// returning the Config object if successful or otherwise the error
func tryLoadConfig(configPath string) (Config, error) {
	config := Config{}
	m, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return Config{}, err
	}

	unknownKeys := m.Undecoded()

	if len(unknownKeys) > 0 {
		keys := make([]string, 0, len(unknownKeys))

		for _, key := range unknownKeys {
			keys = append(keys, key.String())
		}

		return Config{}, fmt.Errorf("unknown keys in config file: %s", strings.Join(keys, ", "))
	}

	config.LoadPath = configPath

	return config, nil
}
