package output_test

import (
	"log/slog"
	"testing"

	"github.com/sbom-pipeline/sbom-pipeline/internal/testlogger"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(testlogger.New()))
	m.Run()
}
