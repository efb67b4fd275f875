package sbom

import (
	"strings"

	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
)

const cvss31Prefix = "CVSS:3.1"

// cvssAbbreviations maps the metric values written out by Dependency-Check to
// their vector string form
var cvssAbbreviations = map[string]string{
	"NETWORK":          "N",
	"ADJACENT_NETWORK": "A",
	"ADJACENT":         "A",
	"LOCAL":            "L",
	"PHYSICAL":         "P",
	"LOW":              "L",
	"HIGH":             "H",
	"NONE":             "N",
	"REQUIRED":         "R",
	"UNCHANGED":        "U",
	"CHANGED":          "C",
}

type cvssMetric struct {
	key      string
	fallback string
	value    func(*depcheck.CVSSv3) string
}

var cvssMetrics = []cvssMetric{
	{"AV", "N", func(c *depcheck.CVSSv3) string { return c.AttackVector }},
	{"AC", "L", func(c *depcheck.CVSSv3) string { return c.AttackComplexity }},
	{"PR", "N", func(c *depcheck.CVSSv3) string { return c.PrivilegesRequired }},
	{"UI", "N", func(c *depcheck.CVSSv3) string { return c.UserInteraction }},
	{"S", "U", func(c *depcheck.CVSSv3) string { return c.Scope }},
	{"C", "N", func(c *depcheck.CVSSv3) string { return c.ConfidentialityImpact }},
	{"I", "N", func(c *depcheck.CVSSv3) string { return c.IntegrityImpact }},
	{"A", "N", func(c *depcheck.CVSSv3) string { return c.AvailabilityImpact }},
}

// BuildCVSSVector renders the CVSS v3.1 base vector for the given metrics.
// Missing metrics default to AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N.
func BuildCVSSVector(cvss *depcheck.CVSSv3) string {
	var sb strings.Builder
	sb.WriteString(cvss31Prefix)

	for _, metric := range cvssMetrics {
		value := abbreviate(metric.value(cvss))
		if value == "" {
			value = metric.fallback
		}

		sb.WriteString("/")
		sb.WriteString(metric.key)
		sb.WriteString(":")
		sb.WriteString(value)
	}

	return sb.String()
}

func abbreviate(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))

	if abbr, ok := cvssAbbreviations[value]; ok {
		return abbr
	}

	return value
}
