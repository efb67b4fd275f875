package sbom_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/sbom-pipeline/sbom-pipeline/internal/testlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testutility"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(testlogger.New()))
	code := m.Run()

	testutility.CleanSnapshots(m)

	os.Exit(code)
}
