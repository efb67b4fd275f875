package dtrack

import "github.com/sbom-pipeline/sbom-pipeline/internal/version"

type ClientConfig struct {
	MaxRetryAttempts          int
	JitterMultiplier          float64
	BackoffDurationMultiplier float64
	UserAgent                 string
	// PageSize is the number of projects requested per page when listing projects
	PageSize int
}

// DefaultConfig makes a default client config
func DefaultConfig() ClientConfig {
	return ClientConfig{
		MaxRetryAttempts:          4,
		JitterMultiplier:          2,
		BackoffDurationMultiplier: 1,
		UserAgent:                 "sbom-pipeline/" + version.SBOMPipelineVersion,
		PageSize:                  100,
	}
}
