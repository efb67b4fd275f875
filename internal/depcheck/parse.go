package depcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrMalformedJSON is returned when the report is not valid JSON
	ErrMalformedJSON = errors.New("malformed JSON")
	// ErrInvalidReport is returned when the report is valid JSON but not shaped like
	// a Dependency-Check report at the top level.
	ErrInvalidReport = errors.New("invalid dependency-check report")
)

// ReadFile parses the Dependency-Check report at path.
//
// The error wraps os.ErrNotExist if the file does not exist.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a Dependency-Check JSON report.
//
// Invalid UTF-8 is replaced rather than rejected, and a leading byte order mark
// selects the matching UTF-16 decoding. Nested fields that are missing or of an
// unexpected type are left at their zero value, so the only structural errors
// are a top level value that is not an object, or a "dependencies" value that is
// present but not an array (including null).
func Parse(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, syntaxError(data)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrInvalidReport)
	}

	report := &Report{
		ReportSchema: stringField(root, "reportSchema"),
		ScanInfo: ScanInfo{
			EngineVersion: stringField(root, "scanInfo.engineVersion"),
		},
		ProjectInfo: ProjectInfo{
			Name:       stringField(root, "projectInfo.name"),
			ReportDate: stringField(root, "projectInfo.reportDate"),
		},
	}

	dependencies := root.Get("dependencies")
	switch {
	case !dependencies.Exists():
		return report, nil
	case !dependencies.IsArray():
		return nil, fmt.Errorf("%w: \"dependencies\" is not an array", ErrInvalidReport)
	}

	report.Dependencies = make([]Dependency, 0, len(dependencies.Array()))
	for i, dep := range dependencies.Array() {
		if !dep.IsObject() {
			cmdlogger.Warnf("Skipping dependency at index %d: not a JSON object", i)
			continue
		}
		report.Dependencies = append(report.Dependencies, parseDependency(dep))
	}

	return report, nil
}

// syntaxError produces a descriptive error for input that is not valid JSON
func syntaxError(data []byte) error {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err == nil {
		// gjson and encoding/json disagree, which only happens on edge cases
		// like trailing garbage, so report it generically
		err = errors.New("invalid character after top-level value")
	}

	return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
}

func parseDependency(dep gjson.Result) Dependency {
	return Dependency{
		IsVirtual:        dep.Get("isVirtual").Bool(),
		FileName:         stringField(dep, "fileName"),
		FilePath:         stringField(dep, "filePath"),
		Description:      stringField(dep, "description"),
		License:          stringField(dep, "license"),
		MD5:              stringField(dep, "md5"),
		SHA1:             stringField(dep, "sha1"),
		SHA256:           stringField(dep, "sha256"),
		Packages:         identifiers(dep.Get("packages")),
		VulnerabilityIDs: identifiers(dep.Get("vulnerabilityIds")),
		Vulnerabilities:  vulnerabilities(dep.Get("vulnerabilities")),
	}
}

func identifiers(list gjson.Result) []Identifier {
	if !list.IsArray() {
		return nil
	}

	ids := make([]Identifier, 0, len(list.Array()))
	for _, elem := range list.Array() {
		switch {
		case elem.IsObject():
			ids = append(ids, Identifier{
				ID:         stringField(elem, "id"),
				Confidence: stringField(elem, "confidence"),
				URL:        stringField(elem, "url"),
			})
		case elem.Type == gjson.String:
			ids = append(ids, Identifier{ID: elem.Str})
		}
	}

	return ids
}

func vulnerabilities(list gjson.Result) []Vulnerability {
	if !list.IsArray() {
		return nil
	}

	vulns := make([]Vulnerability, 0, len(list.Array()))
	for _, elem := range list.Array() {
		if !elem.IsObject() {
			continue
		}

		vulns = append(vulns, Vulnerability{
			Source:      stringField(elem, "source"),
			Name:        stringField(elem, "name"),
			Severity:    stringField(elem, "severity"),
			CVSSv3:      cvssV3(elem.Get("cvssv3")),
			CWEs:        stringList(elem.Get("cwes")),
			Description: stringField(elem, "description"),
			References:  references(elem.Get("references")),
		})
	}

	return vulns
}

func cvssV3(obj gjson.Result) *CVSSv3 {
	if !obj.IsObject() {
		return nil
	}

	return &CVSSv3{
		BaseScore:             floatField(obj, "baseScore"),
		AttackVector:          stringField(obj, "attackVector"),
		AttackComplexity:      stringField(obj, "attackComplexity"),
		PrivilegesRequired:    stringField(obj, "privilegesRequired"),
		UserInteraction:       stringField(obj, "userInteraction"),
		Scope:                 stringField(obj, "scope"),
		ConfidentialityImpact: stringField(obj, "confidentialityImpact"),
		IntegrityImpact:       stringField(obj, "integrityImpact"),
		AvailabilityImpact:    stringField(obj, "availabilityImpact"),
		BaseSeverity:          stringField(obj, "baseSeverity"),
		Version:               stringField(obj, "version"),
	}
}

func references(list gjson.Result) []Reference {
	if !list.IsArray() {
		return nil
	}

	refs := make([]Reference, 0, len(list.Array()))
	for _, elem := range list.Array() {
		if !elem.IsObject() {
			continue
		}
		refs = append(refs, Reference{
			Source: stringField(elem, "source"),
			URL:    stringField(elem, "url"),
			Name:   stringField(elem, "name"),
		})
	}

	return refs
}

func stringList(list gjson.Result) []string {
	if !list.IsArray() {
		return nil
	}

	values := make([]string, 0, len(list.Array()))
	for _, elem := range list.Array() {
		if elem.Type == gjson.String || elem.Type == gjson.Number {
			values = append(values, elem.String())
		}
	}

	return values
}

// stringField returns the value at path if it is a string or number, and "" otherwise
func stringField(obj gjson.Result, path string) string {
	v := obj.Get(path)

	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	case gjson.Null, gjson.False, gjson.True, gjson.JSON:
		return ""
	}

	return ""
}

func floatField(obj gjson.Result, path string) *float64 {
	v := obj.Get(path)

	switch v.Type {
	case gjson.Number:
		return &v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return nil
		}

		return &f
	case gjson.Null, gjson.False, gjson.True, gjson.JSON:
		return nil
	}

	return nil
}
