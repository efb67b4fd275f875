package sbom

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/package-url/packageurl-go"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
	"github.com/sbom-pipeline/sbom-pipeline/internal/utility/severity"
)

func buildCycloneDXBom(report *depcheck.Report, provider Provider) *cyclonedx.BOM {
	bom := cyclonedx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + provider.NewID()
	bom.Version = 1
	bom.Metadata = buildMetadata(report, provider)

	components := make([]cyclonedx.Component, 0, len(report.Dependencies))
	for _, dependency := range report.Dependencies {
		if dependency.IsVirtual {
			continue
		}
		components = append(components, buildComponent(dependency, provider))
	}

	vulnerabilities := buildVulnerabilities(report.Dependencies)

	bom.Components = &components
	bom.Vulnerabilities = &vulnerabilities

	return bom
}

func buildMetadata(report *depcheck.Report, provider Provider) *cyclonedx.Metadata {
	toolVersion := report.ScanInfo.EngineVersion
	if toolVersion == "" {
		toolVersion = DefaultToolVersion
	}

	return &cyclonedx.Metadata{
		Timestamp: provider.Now().UTC().Format(time.RFC3339),
		Tools: &cyclonedx.ToolsChoice{
			//nolint:staticcheck // legacy tools array
			Tools: &[]cyclonedx.Tool{
				{
					Vendor:  "OWASP",
					Name:    "Dependency-Check",
					Version: toolVersion,
				},
			},
		},
		Component: &cyclonedx.Component{
			Type:    cyclonedx.ComponentTypeApplication,
			BOMRef:  provider.NewID(),
			Name:    metadataComponentName,
			Version: metadataComponentVersion,
		},
	}
}

func buildComponent(dependency depcheck.Dependency, provider Provider) cyclonedx.Component {
	name := dependency.FileName
	if name == "" {
		name = unknownComponentName
	}

	component := cyclonedx.Component{
		BOMRef:      provider.NewID(),
		Type:        componentType(name),
		Name:        name,
		Version:     resolveVersion(dependency),
		Description: dependency.Description,
		CPE:         findCPE(dependency.VulnerabilityIDs),
		PackageURL:  findPackageURL(dependency),
	}

	fillHashes(&component, dependency)
	fillLicenses(&component, dependency)

	if dependency.FilePath != "" {
		component.Properties = &[]cyclonedx.Property{
			{Name: filePathProperty, Value: dependency.FilePath},
		}
	}

	return component
}

func componentType(name string) cyclonedx.ComponentType {
	if t, ok := componentTypeByExtension[filepath.Ext(name)]; ok {
		return t
	}

	return cyclonedx.ComponentTypeFile
}

// resolveVersion takes the version from the first package identifier carrying
// one, falling back to the trailing hyphenated part of a jar file name
func resolveVersion(dependency depcheck.Dependency) string {
	for _, pkg := range dependency.Packages {
		if i := strings.LastIndex(pkg.ID, "@"); i >= 0 {
			return pkg.ID[i+1:]
		}
	}

	name := dependency.FileName
	if strings.HasSuffix(name, ".jar") && strings.Contains(name, "-") {
		base := strings.TrimSuffix(name, ".jar")
		return base[strings.LastIndex(base, "-")+1:]
	}

	return UnknownVersion
}

func findCPE(ids []depcheck.Identifier) string {
	for _, id := range ids {
		if strings.HasPrefix(id.ID, "cpe:") {
			return id.ID
		}
	}

	return ""
}

func findPackageURL(dependency depcheck.Dependency) string {
	for _, pkg := range dependency.Packages {
		if !strings.HasPrefix(pkg.ID, "pkg:") {
			continue
		}

		if _, err := packageurl.FromString(pkg.ID); err != nil {
			cmdlogger.Warnf("Invalid package URL %q for %s: %v", pkg.ID, dependency.FileName, err)
		}

		return pkg.ID
	}

	return ""
}

func fillHashes(component *cyclonedx.Component, dependency depcheck.Dependency) {
	hashes := make([]cyclonedx.Hash, 0, 3)

	for _, h := range []struct {
		algorithm cyclonedx.HashAlgorithm
		value     string
	}{
		{cyclonedx.HashAlgoMD5, dependency.MD5},
		{cyclonedx.HashAlgoSHA1, dependency.SHA1},
		{cyclonedx.HashAlgoSHA256, dependency.SHA256},
	} {
		if h.value == "" {
			continue
		}
		hashes = append(hashes, cyclonedx.Hash{Algorithm: h.algorithm, Value: h.value})
	}

	if len(hashes) > 0 {
		component.Hashes = &hashes
	}
}

func fillLicenses(component *cyclonedx.Component, dependency depcheck.Dependency) {
	if dependency.License == "" {
		return
	}

	component.Licenses = &cyclonedx.Licenses{
		cyclonedx.LicenseChoice{
			License: &cyclonedx.License{
				Name: dependency.License,
			},
		},
	}
}

// buildVulnerabilities collects the vulnerabilities of every dependency, virtual
// or not, merging those that share a name into a single entry affecting each of
// the dependencies it was reported against
func buildVulnerabilities(dependencies []depcheck.Dependency) []cyclonedx.Vulnerability {
	vulnerabilities := make([]cyclonedx.Vulnerability, 0)
	indexByName := make(map[string]int)

	for _, dependency := range dependencies {
		ref := dependency.FileName
		if ref == "" {
			ref = unknownAffectedRef
		}

		for _, vuln := range dependency.Vulnerabilities {
			if vuln.Name == "" {
				continue
			}

			index, exists := indexByName[vuln.Name]
			if !exists {
				converted := buildVulnerability(vuln)
				converted.Affects = &[]cyclonedx.Affects{{Ref: ref}}

				indexByName[vuln.Name] = len(vulnerabilities)
				vulnerabilities = append(vulnerabilities, converted)

				continue
			}

			addAffected(&vulnerabilities[index], ref)
		}
	}

	return vulnerabilities
}

func addAffected(vulnerability *cyclonedx.Vulnerability, ref string) {
	for _, affected := range *vulnerability.Affects {
		if affected.Ref == ref {
			return
		}
	}

	*vulnerability.Affects = append(*vulnerability.Affects, cyclonedx.Affects{Ref: ref})
}

func buildVulnerability(vuln depcheck.Vulnerability) cyclonedx.Vulnerability {
	sourceName := vuln.Source
	if sourceName == "" {
		sourceName = unknownSourceName
	}

	return cyclonedx.Vulnerability{
		ID:          vuln.Name,
		Source:      &cyclonedx.Source{Name: sourceName},
		Ratings:     buildRatings(vuln),
		Description: vuln.Description,
		References:  buildReferences(vuln),
		CWEs:        buildCWEs(vuln.CWEs),
	}
}

func buildRatings(vuln depcheck.Vulnerability) *[]cyclonedx.VulnerabilityRating {
	if vuln.CVSSv3 == nil {
		return nil
	}

	vector := BuildCVSSVector(vuln.CVSSv3)

	score := vuln.CVSSv3.BaseScore
	if score == nil {
		if computed, _, err := severity.CalculateScore(vector); err == nil {
			score = &computed
		}
	}

	label := vuln.CVSSv3.BaseSeverity
	if label == "" {
		label = vuln.Severity
	}

	return &[]cyclonedx.VulnerabilityRating{
		{
			Method:   cyclonedx.ScoringMethodCVSSv3,
			Score:    score,
			Severity: MapSeverity(label),
			Vector:   vector,
		},
	}
}

// MapSeverity maps a Dependency-Check severity label onto a CycloneDX
// severity, ignoring case. Unrecognised labels map to unknown.
func MapSeverity(label string) cyclonedx.Severity {
	if s, ok := severityMapper[severity.ParseRating(label)]; ok {
		return s
	}

	return cyclonedx.SeverityUnknown
}

func buildReferences(vuln depcheck.Vulnerability) *[]cyclonedx.VulnerabilityReference {
	if len(vuln.References) == 0 {
		return nil
	}

	references := make([]cyclonedx.VulnerabilityReference, len(vuln.References))
	for index, reference := range vuln.References {
		references[index] = cyclonedx.VulnerabilityReference{
			ID: "ref-" + strconv.Itoa(index+1),
			Source: &cyclonedx.Source{
				Name: referenceSourceName,
				URL:  reference.URL,
			},
		}
	}

	return &references
}

// ParseCWEs converts CWE identifiers such as "CWE-79" or "79" to their numbers,
// dropping any that are not numeric
func ParseCWEs(cwes []string) []int {
	ids := make([]int, 0, len(cwes))
	for _, cwe := range cwes {
		id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(cwe), "CWE-"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

func buildCWEs(cwes []string) *[]int {
	ids := ParseCWEs(cwes)
	if len(ids) == 0 {
		return nil
	}

	return &ids
}
