package depcheck_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
)

func ptr[T any](v T) *T {
	return &v
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	got, err := depcheck.ReadFile("testdata/report.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &depcheck.Report{
		ReportSchema: "1.1",
		ScanInfo:     depcheck.ScanInfo{EngineVersion: "12.1.0"},
		ProjectInfo: depcheck.ProjectInfo{
			Name:       "webapp-2.1.0",
			ReportDate: "2025-06-01T10:15:00.000Z",
		},
		Dependencies: []depcheck.Dependency{
			{
				FileName:    "commons-text-1.9.jar",
				FilePath:    "/src/webapp-2.1.0/lib/commons-text-1.9.jar",
				Description: "Apache Commons Text is a library focused on algorithms working on strings.",
				License:     "Apache-2.0",
				MD5:         "f3a1b2c3d4e5f60718293a4b5c6d7e8f",
				SHA1:        "ba6ac8c2807490944a0a27f6f8e68fb5ed2e80e2",
				SHA256:      "0812f284ac5dd0d617461d9a2ab6ac6811137f25122dfffd4788a4871e732d00",
				Packages: []depcheck.Identifier{
					{
						ID:         "pkg:maven/org.apache.commons/commons-text@1.9",
						Confidence: "HIGH",
						URL:        "https://ossindex.sonatype.org/component/pkg:maven/org.apache.commons/commons-text@1.9",
					},
				},
				VulnerabilityIDs: []depcheck.Identifier{
					{
						ID:         "cpe:2.3:a:apache:commons_text:1.9:*:*:*:*:*:*:*",
						Confidence: "HIGHEST",
					},
				},
				Vulnerabilities: []depcheck.Vulnerability{
					{
						Source:   "NVD",
						Name:     "CVE-2022-42889",
						Severity: "CRITICAL",
						CVSSv3: &depcheck.CVSSv3{
							BaseScore:             ptr(9.8),
							AttackVector:          "NETWORK",
							AttackComplexity:      "LOW",
							PrivilegesRequired:    "NONE",
							UserInteraction:       "NONE",
							Scope:                 "UNCHANGED",
							ConfidentialityImpact: "HIGH",
							IntegrityImpact:       "HIGH",
							AvailabilityImpact:    "HIGH",
							BaseSeverity:          "CRITICAL",
							Version:               "3.1",
						},
						CWEs:        []string{"CWE-94"},
						Description: "Apache Commons Text performs variable interpolation.",
						References: []depcheck.Reference{
							{
								Source: "MISC",
								URL:    "https://lists.apache.org/thread/n2bd4vdsgkqh2tm14l1wyc3jyol7s1om",
								Name:   "https://lists.apache.org/thread/n2bd4vdsgkqh2tm14l1wyc3jyol7s1om",
							},
						},
					},
				},
			},
			{
				IsVirtual: true,
				FileName:  "package-lock.json?lodash",
				FilePath:  "/src/webapp-2.1.0/package-lock.json?lodash",
				Packages: []depcheck.Identifier{
					{ID: "pkg:npm/lodash@4.17.20", Confidence: "HIGHEST"},
				},
				VulnerabilityIDs: nil,
				Vulnerabilities: []depcheck.Vulnerability{
					{
						Source:      "NPM",
						Name:        "GHSA-35jh-r3h4-6jhm",
						Severity:    "HIGH",
						CWEs:        []string{"CWE-77", "CWE-94"},
						Description: "Command Injection in lodash",
						References: []depcheck.Reference{
							{
								Source: "NPM Advisory reference: ",
								URL:    "https://github.com/advisories/GHSA-35jh-r3h4-6jhm",
								Name:   "https://github.com/advisories/GHSA-35jh-r3h4-6jhm",
							},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile_NotExist(t *testing.T) {
	t.Parallel()

	_, err := depcheck.ReadFile(filepath.Join(t.TempDir(), "missing.json"))

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error to wrap os.ErrNotExist, got %v", err)
	}
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "trailing_comma",
			path:    "testdata/malformed.json",
			wantErr: depcheck.ErrMalformedJSON,
		},
		{
			name:    "top_level_array",
			path:    "testdata/not-an-object.json",
			wantErr: depcheck.ErrInvalidReport,
		},
		{
			name:    "dependencies_is_an_object",
			path:    "testdata/dependencies-not-an-array.json",
			wantErr: depcheck.ErrInvalidReport,
		},
		{
			name:    "dependencies_is_null",
			path:    "testdata/null-dependencies.json",
			wantErr: depcheck.ErrInvalidReport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := depcheck.ReadFile(tt.path)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadFile() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("ReadFile() returned a report alongside an error: %+v", got)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *depcheck.Report
	}{
		{
			name:  "empty_object",
			input: "{}",
			want:  &depcheck.Report{},
		},
		{
			name:  "no_dependencies_key",
			input: `{"scanInfo": {"engineVersion": "9.0.0"}}`,
			want:  &depcheck.Report{ScanInfo: depcheck.ScanInfo{EngineVersion: "9.0.0"}},
		},
		{
			name:  "empty_dependencies",
			input: `{"dependencies": []}`,
			want:  &depcheck.Report{Dependencies: []depcheck.Dependency{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := depcheck.Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFile_NoDependencies(t *testing.T) {
	t.Parallel()

	got, err := depcheck.ReadFile("testdata/no-dependencies.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %d", len(got.Dependencies))
	}
	if got.ScanInfo.EngineVersion != "12.1.3" {
		t.Errorf("expected engine version 12.1.3, got %q", got.ScanInfo.EngineVersion)
	}
}

func TestReadFile_WrongTypes(t *testing.T) {
	t.Parallel()

	got, err := depcheck.ReadFile("testdata/wrong-types.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []depcheck.Dependency{
		{
			FileName: "guava-31.0.jar",
			SHA1:     "1234",
			VulnerabilityIDs: []depcheck.Identifier{
				{ID: "cpe:2.3:a:google:guava:31.0:*:*:*:*:*:*:*"},
			},
			Vulnerabilities: []depcheck.Vulnerability{
				{
					Name:       "CVE-2023-2976",
					CWEs:       []string{"CWE-552", "200"},
					References: []depcheck.Reference{{URL: "17"}},
				},
				{
					Name: "CVE-2020-8908",
					CVSSv3: &depcheck.CVSSv3{
						BaseScore:    ptr(3.3),
						AttackVector: "LOCAL",
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got.Dependencies); diff != "" {
		t.Errorf("ReadFile() dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile_Encoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		wantFileName string
	}{
		{
			name:         "invalid_utf8_is_replaced",
			path:         "testdata/invalid-utf8.json",
			wantFileName: "caf�-1.0.jar",
		},
		{
			name:         "utf16_with_byte_order_mark",
			path:         "testdata/utf16-bom.json",
			wantFileName: "naïve-2.0.jar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := depcheck.ReadFile(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got.Dependencies) != 1 {
				t.Fatalf("expected 1 dependency, got %d", len(got.Dependencies))
			}
			if got.Dependencies[0].FileName != tt.wantFileName {
				t.Errorf("FileName = %q, want %q", got.Dependencies[0].FileName, tt.wantFileName)
			}
		})
	}
}
