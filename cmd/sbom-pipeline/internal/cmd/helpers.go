// Package cmd provides helper functions for the sbom-pipeline CLI commands.
package cmd

func getCustomHelpTemplate() string {
	return `
NAME:
	{{.Name}} - {{.Usage}}

USAGE:
	{{.Name}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}}

EXAMPLES:
	# Convert an existing Dependency-Check report into a CycloneDX SBOM
	$ {{.Name}} convert dependency-check-report.json bom.json

	# Scan /src/webapp-2.1.0 and upload the result as project "webapp" version "2.1.0"
	$ {{.Name}} scan --scan-path /src --subdir webapp-2.1.0

	# Upload an existing SBOM
	$ {{.Name}} upload --project webapp --project-version 2.1.0 bom.json

	# Check the configuration and connectivity
	$ {{.Name}} check

	For full usage details, please refer to the help command of each subcommand (e.g. {{.Name}} scan --help).

VERSION:
	{{.Version}}

COMMANDS:
{{range .Commands}}{{if and (not .HideHelp) (not .Hidden)}}  {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}
{{if .VisibleFlags}}
GLOBAL OPTIONS:
	{{range .VisibleFlags}}  {{.}}{{end}}
{{end}}
`
}
