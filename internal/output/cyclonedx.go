package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/depcheck"
	"github.com/sbom-pipeline/sbom-pipeline/internal/output/sbom"
)

// PrintCycloneDXResults writes the BOM to the provided writer as pretty printed CycloneDX JSON
func PrintCycloneDXResults(bom *cyclonedx.BOM, outputWriter io.Writer) error {
	encoder := cyclonedx.NewBOMEncoder(outputWriter, cyclonedx.BOMFileFormatJSON)
	encoder.SetPretty(true)

	return encoder.Encode(bom)
}

// WriteCycloneDXFile writes the BOM to path, creating any missing parent directories
func WriteCycloneDXFile(bom *cyclonedx.BOM, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := PrintCycloneDXResults(bom, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// ConvertFile converts the Dependency-Check report at inputPath into a
// CycloneDX BOM written to outputPath.
//
// Errors from reading the report are returned as-is, so callers can tell a
// missing file from a malformed one.
func ConvertFile(inputPath, outputPath string) (*cyclonedx.BOM, error) {
	report, err := depcheck.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	bom := sbom.Convert(report)

	if err := WriteCycloneDXFile(bom, outputPath); err != nil {
		return nil, err
	}

	cmdlogger.Infof("Converted %d dependencies into %d components and %d vulnerabilities",
		len(report.Dependencies), len(*bom.Components), len(*bom.Vulnerabilities))

	return bom, nil
}
