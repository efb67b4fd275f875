package testcmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/cmd"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testutility"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

// CommandsUnderTest should be set in TestMain by every cmd package test
var CommandsUnderTest []cmd.CommandBuilder

// fetchCommandsToTest returns the commands that should be tested, with a
// "convert" command that fails loudly if the command under test is not convert
func fetchCommandsToTest() []cmd.CommandBuilder {
	for _, builder := range CommandsUnderTest {
		if builder(nil, nil).Name == "convert" {
			return CommandsUnderTest
		}
	}

	return append(CommandsUnderTest, func(_, _ io.Writer) *cli.Command {
		return &cli.Command{
			Name: "convert",
			Action: func(_ context.Context, _ *cli.Command) error {
				return errors.New("<this test is unexpectedly calling the convert command>")
			},
		}
	})
}

func run(t *testing.T, tc Case, commands []cmd.CommandBuilder) (string, string) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	ec := cmd.Run(tc.Args, stdout, stderr, commands)

	if ec != tc.Exit {
		t.Errorf("cli exited with code %d, not %d", ec, tc.Exit)
		t.Logf("stdout:\n%s", stdout.String())
		t.Logf("stderr:\n%s", stderr.String())
	}

	return stdout.String(), stderr.String()
}

// Run runs the case against CommandsUnderTest, checking the exit code, the
// expected output fragments and the stored snapshots, and returns the
// normalized stdout and stderr
func Run(t *testing.T, tc Case) (string, string) {
	t.Helper()

	return RunWith(t, tc, fetchCommandsToTest())
}

// RunWith is Run with an explicit set of commands, for commands that have to
// be built per test
func RunWith(t *testing.T, tc Case, commands []cmd.CommandBuilder) (string, string) {
	t.Helper()

	stdout, stderr := run(t, tc, commands)

	stdout = testutility.NormalizeOutput(t, stdout)
	stderr = testutility.NormalizeOutput(t, stderr)

	expectContains(t, "stdout", stdout, tc.Stdout)
	expectContains(t, "stderr", stderr, tc.Stderr)

	testutility.NewSnapshot().MatchText(t, stdout)
	testutility.NewSnapshot().MatchText(t, stderr)

	return stdout, stderr
}

// RunJSON runs a case whose stdout is a JSON document, applying the case's
// ReplaceRules to it before matching it against the stored snapshot
func RunJSON(t *testing.T, tc Case) (string, string) {
	t.Helper()

	stdout, stderr := run(t, tc, fetchCommandsToTest())

	if !gjson.Valid(stdout) {
		t.Fatalf("stdout is not valid JSON:\n%s", stdout)
	}

	stdout = normalizeJSON(t, stdout, tc.ReplaceRules...)
	stderr = testutility.NormalizeOutput(t, stderr)

	expectContains(t, "stderr", stderr, tc.Stderr)

	testutility.NewSnapshot().MatchText(t, stdout)
	testutility.NewSnapshot().MatchText(t, stderr)

	return stdout, stderr
}

func expectContains(t *testing.T, name, output string, want []string) {
	t.Helper()

	for _, text := range want {
		if !strings.Contains(output, text) {
			t.Errorf("expected %s to contain %q, but it was:\n%s", name, text, output)
		}
	}
}
