package sbom

import (
	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbom-pipeline/sbom-pipeline/internal/utility/severity"
)

const cycloneDx15Schema = "http://cyclonedx.org/schema/bom-1.5.schema.json"

const (
	// UnknownVersion is used when no version can be derived for a dependency
	UnknownVersion = "UNKNOWN"
	// DefaultToolVersion is reported when the report does not record the engine version
	DefaultToolVersion = "12.1.3"

	unknownComponentName = "Unknown"
	unknownAffectedRef   = "unknown"
	unknownSourceName    = "unknown"
	referenceSourceName  = "external"
	filePathProperty     = "dependency-check:filePath"

	metadataComponentName    = "Converted Application"
	metadataComponentVersion = "1.0.0"
)

// componentTypeByExtension maps file extensions to their component type,
// anything else being a plain file
var componentTypeByExtension = map[string]cyclonedx.ComponentType{
	".exe": cyclonedx.ComponentTypeApplication,
	".dll": cyclonedx.ComponentTypeApplication,
	".jar": cyclonedx.ComponentTypeLibrary,
	".war": cyclonedx.ComponentTypeLibrary,
	".ear": cyclonedx.ComponentTypeLibrary,
}

// severityMapper maps the recognised Dependency-Check ratings onto CycloneDX severities
var severityMapper = map[severity.Rating]cyclonedx.Severity{
	severity.CriticalRating: cyclonedx.SeverityCritical,
	severity.HighRating:     cyclonedx.SeverityHigh,
	severity.MediumRating:   cyclonedx.SeverityMedium,
	severity.LowRating:      cyclonedx.SeverityLow,
	severity.InfoRating:     cyclonedx.SeverityInfo,
}
