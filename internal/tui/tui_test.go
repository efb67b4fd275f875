package tui_test

import (
	"strings"
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbom-pipeline/sbom-pipeline/internal/tui"
)

func TestRenderSeverityCounts(t *testing.T) {
	t.Parallel()

	got := tui.RenderSeverityCounts(map[cyclonedx.Severity]int{
		cyclonedx.SeverityLow:      3,
		cyclonedx.SeverityCritical: 1,
		cyclonedx.SeverityMedium:   0,
	})

	critical := strings.Index(got, "CRITICAL")
	low := strings.Index(got, "LOW")

	if critical == -1 || low == -1 {
		t.Fatalf("expected both CRITICAL and LOW to be rendered, got %q", got)
	}
	if critical > low {
		t.Errorf("expected CRITICAL to be rendered before LOW, got %q", got)
	}
	if strings.Contains(got, "MEDIUM") {
		t.Errorf("expected severities without vulnerabilities to be left out, got %q", got)
	}
}

func TestRenderSeverityCounts_Empty(t *testing.T) {
	t.Parallel()

	if got := tui.RenderSeverityCounts(nil); !strings.Contains(got, "no vulnerabilities") {
		t.Errorf("expected a placeholder, got %q", got)
	}
}

func TestField(t *testing.T) {
	t.Parallel()

	got := tui.Field("Project", "webapp")

	if !strings.Contains(got, "Project:") || !strings.Contains(got, "webapp") {
		t.Errorf("expected the label and value to be rendered, got %q", got)
	}
}
