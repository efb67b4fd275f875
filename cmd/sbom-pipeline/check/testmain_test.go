package check_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/check"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/cmd"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/testcmd"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testutility"
)

func TestMain(m *testing.M) {
	config.SBOMPipelineConfigName = "sbom-pipeline-test.toml"

	slog.SetDefault(slog.New(testlogger.New()))
	testcmd.CommandsUnderTest = []cmd.CommandBuilder{check.Command}
	code := m.Run()

	testutility.CleanSnapshots(m)

	os.Exit(code)
}
