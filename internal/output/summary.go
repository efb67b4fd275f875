package output

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/package-url/packageurl-go"
)

const unknownEcosystem = "unknown"

// severityOrder is the order severities are listed in, most severe first
var severityOrder = []cyclonedx.Severity{
	cyclonedx.SeverityCritical,
	cyclonedx.SeverityHigh,
	cyclonedx.SeverityMedium,
	cyclonedx.SeverityLow,
	cyclonedx.SeverityInfo,
	cyclonedx.SeverityNone,
	cyclonedx.SeverityUnknown,
}

// Summary counts what a converted BOM contains
type Summary struct {
	Components      int
	Vulnerabilities int
	// Ecosystems counts components by package URL type, with components that have
	// no usable package URL counted as "unknown"
	Ecosystems map[string]int
	// Severities counts vulnerabilities by the severity of their first rating
	Severities map[cyclonedx.Severity]int
}

// Summarize counts the components and vulnerabilities in bom
func Summarize(bom *cyclonedx.BOM) Summary {
	summary := Summary{
		Ecosystems: make(map[string]int),
		Severities: make(map[cyclonedx.Severity]int),
	}

	if bom.Components != nil {
		for _, component := range *bom.Components {
			summary.Components++
			summary.Ecosystems[ecosystem(component)]++
		}
	}

	if bom.Vulnerabilities != nil {
		for _, vuln := range *bom.Vulnerabilities {
			summary.Vulnerabilities++
			summary.Severities[vulnerabilitySeverity(vuln)]++
		}
	}

	return summary
}

func ecosystem(component cyclonedx.Component) string {
	if component.PackageURL == "" {
		return unknownEcosystem
	}

	purl, err := packageurl.FromString(component.PackageURL)
	if err != nil || purl.Type == "" {
		return unknownEcosystem
	}

	return purl.Type
}

func vulnerabilitySeverity(vuln cyclonedx.Vulnerability) cyclonedx.Severity {
	if vuln.Ratings == nil || len(*vuln.Ratings) == 0 || (*vuln.Ratings)[0].Severity == "" {
		return cyclonedx.SeverityUnknown
	}

	return (*vuln.Ratings)[0].Severity
}

// SortedEcosystems returns the ecosystems in the summary, most common first
func (s Summary) SortedEcosystems() []string {
	ecosystems := make([]string, 0, len(s.Ecosystems))
	for eco := range s.Ecosystems {
		ecosystems = append(ecosystems, eco)
	}

	slices.SortFunc(ecosystems, func(a, b string) int {
		if c := cmp.Compare(s.Ecosystems[b], s.Ecosystems[a]); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	return ecosystems
}

func (s Summary) severityRows() [][2]string {
	rows := make([][2]string, 0, len(severityOrder))
	for _, sev := range severityOrder {
		if count := s.Severities[sev]; count > 0 {
			rows = append(rows, [2]string{string(sev), strconv.Itoa(count)})
		}
	}

	return rows
}
