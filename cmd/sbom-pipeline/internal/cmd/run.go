package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/version"
	"github.com/urfave/cli/v3"
)

var (
	commit = "n/a"
	date   = "n/a"
)

type CommandBuilder = func(stdout, stderr io.Writer) *cli.Command

func Run(args []string, stdout, stderr io.Writer, commands []CommandBuilder) int {
	// urfave/cli uses a global for its help flag which makes it possible for a nil
	// pointer dereference if running in a parallel setting, which our test suite
	// does, so this is used to hide the help flag so the global won't be used
	// unless a particular env variable is set
	//
	// see https://github.com/urfave/cli/issues/2176
	shouldHideHelp := testing.Testing() && os.Getenv("TEST_SHOW_HELP") != "true"

	// --- Setup Logger ---
	logHandler := cmdlogger.New(stdout, stderr)

	// If in testing mode, set logger via Handler
	// Otherwise, set default global logger
	if testing.Testing() {
		handler, ok := slog.Default().Handler().(*testlogger.Handler)
		if !ok {
			panic("Test failed to initialize default logger with Handler")
		}

		handler.AddInstance(logHandler)
		defer handler.Delete()
	} else {
		slog.SetDefault(slog.New(logHandler))
	}
	// ---

	cli.VersionPrinter = func(cmd *cli.Command) {
		cmdlogger.Infof("sbom-pipeline version: %s", cmd.Version)
		cmdlogger.Infof("commit: %s", commit)
		cmdlogger.Infof("built at: %s", date)
	}

	cmds := make([]*cli.Command, 0, len(commands))
	for _, cmd := range commands {
		c := cmd(stdout, stderr)
		c.HideHelp = shouldHideHelp

		cmds = append(cmds, c)
	}

	app := &cli.Command{
		Name:      "sbom-pipeline",
		Version:   version.SBOMPipelineVersion,
		Usage:     "scans projects with OWASP Dependency-Check and publishes them to Dependency-Track as CycloneDX SBOMs",
		Suggest:   true,
		HideHelp:  shouldHideHelp,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  cmds,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "verbosity",
				Usage: "specify the level of information that should be provided during runtime; value can be: " + strings.Join(cmdlogger.Levels(), ", "),
				Value: "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := cmdlogger.ParseLevel(cmd.String("verbosity"))
			if err != nil {
				return ctx, err
			}
			logHandler.SetLevel(level)

			return ctx, nil
		},

		CustomRootCommandHelpTemplate: getCustomHelpTemplate(),
	}

	// If ExitErrHandler is not set, cli will use the default cli.HandleExitCoder,
	// which exits early for any error with an ExitCode() method (such as
	// *exec.ExitError from the scanner) without our own error handling.
	app.ExitErrHandler = func(_ context.Context, _ *cli.Command, _ error) {}

	err := app.Run(context.Background(), args)

	if err != nil {
		cmdlogger.Errorf("%v", err)
	}

	// commands may report failures by logging an error rather than returning one
	if err != nil || logHandler.HasErrored() {
		return 1
	}

	return 0
}
