package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/go-cmp/cmp"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output"
)

func rated(id string, severity cyclonedx.Severity) cyclonedx.Vulnerability {
	return cyclonedx.Vulnerability{
		ID:      id,
		Ratings: &[]cyclonedx.VulnerabilityRating{{Severity: severity}},
	}
}

func exampleBOM() *cyclonedx.BOM {
	bom := cyclonedx.NewBOM()
	bom.Components = &[]cyclonedx.Component{
		{Name: "commons-text-1.9.jar", PackageURL: "pkg:maven/org.apache.commons/commons-text@1.9"},
		{Name: "guava-31.0.jar", PackageURL: "pkg:maven/com.google.guava/guava@31.0"},
		{Name: "lodash", PackageURL: "pkg:npm/lodash@4.17.20"},
		{Name: "setup.exe"},
		{Name: "broken", PackageURL: "pkg:"},
	}
	bom.Vulnerabilities = &[]cyclonedx.Vulnerability{
		rated("CVE-2022-42889", cyclonedx.SeverityCritical),
		rated("CVE-2023-2976", cyclonedx.SeverityHigh),
		rated("CVE-2020-8908", cyclonedx.SeverityLow),
		rated("CVE-2021-0001", cyclonedx.SeverityHigh),
		{ID: "GHSA-35jh-r3h4-6jhm"},
	}

	return bom
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := output.Summarize(exampleBOM())

	want := output.Summary{
		Components:      5,
		Vulnerabilities: 5,
		Ecosystems: map[string]int{
			"maven":   2,
			"npm":     1,
			"unknown": 2,
		},
		Severities: map[cyclonedx.Severity]int{
			cyclonedx.SeverityCritical: 1,
			cyclonedx.SeverityHigh:     2,
			cyclonedx.SeverityLow:      1,
			cyclonedx.SeverityUnknown:  1,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"maven", "unknown", "npm"}, got.SortedEcosystems()); diff != "" {
		t.Errorf("SortedEcosystems() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	got := output.Summarize(cyclonedx.NewBOM())

	if got.Components != 0 || got.Vulnerabilities != 0 {
		t.Errorf("expected an empty summary, got %+v", got)
	}
}

func TestPrintSummaryTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	output.PrintSummaryTable(output.Summarize(exampleBOM()), &buf, 0)

	lines := strings.Split(buf.String(), "\n")

	for _, want := range [][]string{
		{"Components", "total", "5"},
		{"maven", "2"},
		{"npm", "1"},
		{"Vulnerabilities", "total", "5"},
		{"critical", "1"},
		{"high", "2"},
		{"unknown", "1"},
	} {
		found := false
		for _, line := range lines {
			if containsAll(line, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a line containing %q in:\n%s", want, buf.String())
		}
	}

	if strings.Contains(buf.String(), "medium") {
		t.Errorf("severities without vulnerabilities should not be listed:\n%s", buf.String())
	}
}

func containsAll(line string, parts []string) bool {
	for _, part := range parts {
		if !strings.Contains(line, part) {
			return false
		}
	}

	return true
}
