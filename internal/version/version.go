// Package version holds the release version of sbom-pipeline.
package version

// SBOMPipelineVersion is the current release version, you should update this variable when doing a release
var SBOMPipelineVersion = "1.0.0"
