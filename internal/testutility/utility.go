package testutility

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// TempDirPrefix prefixes the temporary directories created by CreateTestDir,
// which are replaced with "<tempdir>" when normalizing output
const TempDirPrefix = "sbom-pipeline-test-"

// CreateTestDir makes a temporary directory for use in testing that involves
// writing and reading files from disk, which is automatically cleaned up
// when testing finishes
func CreateTestDir(t *testing.T) string {
	t.Helper()

	//nolint:usetesting // the directory name prefix is matched when normalizing output
	p, err := os.MkdirTemp("", TempDirPrefix+"*")
	if err != nil {
		t.Fatalf("could not create test directory: %v", err)
	}

	// ensure the test directory is removed when we're done testing
	t.Cleanup(func() {
		_ = os.RemoveAll(p)
	})

	return p
}

// WriteFakeScanner writes a Dependency-Check launcher script into toolPath/bin
// that writes reportJSON as the scan report, or exits with exitCode if it is non-zero.
//
// Tests using it should be skipped on Windows.
func WriteFakeScanner(t *testing.T, toolPath string, reportJSON string, exitCode int) {
	t.Helper()

	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--out" ]; then
    out="$2"
  fi
  shift
done
`
	if exitCode != 0 {
		script += "echo 'scan failed' >&2\nexit " + strconv.Itoa(exitCode) + "\n"
	} else {
		script += "cat > \"$out/dependency-check-report.json\" <<'REPORT'\n" + reportJSON + "\nREPORT\n"
	}

	dir := filepath.Join(toolPath, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	//nolint:gosec // the script needs to be executable
	if err := os.WriteFile(filepath.Join(dir, "dependency-check.sh"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
}
