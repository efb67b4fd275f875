package testutility

import (
	"os"
	"testing"
)

// ReadFixture returns the contents of the fixture file as a string
func ReadFixture(t *testing.T, path string) string {
	t.Helper()

	file, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to open fixture: %s", err)
	}

	return string(file)
}
