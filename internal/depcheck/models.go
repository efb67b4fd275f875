// Package depcheck models the JSON report written by OWASP Dependency-Check
// and knows how to run the scanner that produces it.
package depcheck

// Report is the subset of a Dependency-Check JSON report that is used when
// building a CycloneDX SBOM.
type Report struct {
	ReportSchema string       `json:"reportSchema,omitempty"`
	ScanInfo     ScanInfo     `json:"scanInfo"`
	ProjectInfo  ProjectInfo  `json:"projectInfo"`
	Dependencies []Dependency `json:"dependencies"`
}

type ScanInfo struct {
	EngineVersion string `json:"engineVersion,omitempty"`
}

type ProjectInfo struct {
	Name       string `json:"name,omitempty"`
	ReportDate string `json:"reportDate,omitempty"`
}

// Dependency is a single scanned artifact, such as a jar or a dll.
type Dependency struct {
	IsVirtual        bool            `json:"isVirtual"`
	FileName         string          `json:"fileName"`
	FilePath         string          `json:"filePath,omitempty"`
	Description      string          `json:"description,omitempty"`
	License          string          `json:"license,omitempty"`
	MD5              string          `json:"md5,omitempty"`
	SHA1             string          `json:"sha1,omitempty"`
	SHA256           string          `json:"sha256,omitempty"`
	Packages         []Identifier    `json:"packages,omitempty"`
	VulnerabilityIDs []Identifier    `json:"vulnerabilityIds,omitempty"`
	Vulnerabilities  []Vulnerability `json:"vulnerabilities,omitempty"`
}

// Identifier is an entry of either the packages or vulnerabilityIds lists,
// which usually hold package URLs and CPEs respectively.
type Identifier struct {
	ID         string `json:"id"`
	Confidence string `json:"confidence,omitempty"`
	URL        string `json:"url,omitempty"`
}

type Vulnerability struct {
	Source      string      `json:"source,omitempty"`
	Name        string      `json:"name"`
	Severity    string      `json:"severity,omitempty"`
	CVSSv3      *CVSSv3     `json:"cvssv3,omitempty"`
	CWEs        []string    `json:"cwes,omitempty"`
	Description string      `json:"description,omitempty"`
	References  []Reference `json:"references,omitempty"`
}

// CVSSv3 uses the values as written by Dependency-Check, so metrics are
// usually spelled out (e.g. "NETWORK") rather than abbreviated.
type CVSSv3 struct {
	BaseScore             *float64 `json:"baseScore,omitempty"`
	AttackVector          string   `json:"attackVector,omitempty"`
	AttackComplexity      string   `json:"attackComplexity,omitempty"`
	PrivilegesRequired    string   `json:"privilegesRequired,omitempty"`
	UserInteraction       string   `json:"userInteraction,omitempty"`
	Scope                 string   `json:"scope,omitempty"`
	ConfidentialityImpact string   `json:"confidentialityImpact,omitempty"`
	IntegrityImpact       string   `json:"integrityImpact,omitempty"`
	AvailabilityImpact    string   `json:"availabilityImpact,omitempty"`
	BaseSeverity          string   `json:"baseSeverity,omitempty"`
	Version               string   `json:"version,omitempty"`
}

type Reference struct {
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
	Name   string `json:"name,omitempty"`
}
