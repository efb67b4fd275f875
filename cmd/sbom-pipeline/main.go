package main

import (
	"io"
	"os"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/check"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/convert"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/cmd"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/quick"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/scan"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/upload"
)

func run(args []string, stdout, stderr io.Writer) int {
	return cmd.Run(args, stdout, stderr, []cmd.CommandBuilder{
		convert.Command,
		scan.Command,
		upload.Command,
		check.Command,
		quick.Command,
	})
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
