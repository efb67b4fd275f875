// Package sbom maps Dependency-Check reports onto CycloneDX 1.5 BOMs.
package sbom

import (
	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
)

// ToCycloneDXBom converts a Dependency-Check report into a CycloneDX 1.5 BOM,
// taking identifiers and the timestamp from provider
func ToCycloneDXBom(report *depcheck.Report, provider Provider) *cyclonedx.BOM {
	bom := buildCycloneDXBom(report, provider)
	bom.JSONSchema = cycloneDx15Schema
	bom.SpecVersion = cyclonedx.SpecVersion1_5

	return bom
}

// Convert is ToCycloneDXBom with random identifiers and the current time
func Convert(report *depcheck.Report) *cyclonedx.BOM {
	return ToCycloneDXBom(report, DefaultProvider{})
}
