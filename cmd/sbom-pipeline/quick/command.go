// Package quick implements the interactive command that prompts for the
// project to scan before running the pipeline.
package quick

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/cmd"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/helper"
	"github.com/sbom-pipeline/sbom-pipeline/internal/cmdlogger"
	"github.com/sbom-pipeline/sbom-pipeline/internal/pipeline"
	"github.com/sbom-pipeline/sbom-pipeline/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	// ErrNotInteractive is returned when stdin is not a terminal and --yes was not given
	ErrNotInteractive = errors.New("quick needs an interactive terminal, pass --yes to read answers from stdin")
	// ErrNoSubdirectories is returned when the scan path has nothing to choose from
	ErrNoSubdirectories = errors.New("no sub-directories to scan")
	// ErrInvalidSelection is returned for answers that do not pick a sub-directory
	ErrInvalidSelection = errors.New("invalid selection")
)

func Command(stdout, stderr io.Writer) *cli.Command {
	return NewCommand(os.Stdin, func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	})(stdout, stderr)
}

// NewCommand builds the quick command reading its answers from stdin, where
// isTerminal reports if stdin is attached to a terminal
func NewCommand(stdin io.Reader, isTerminal func() bool) cmd.CommandBuilder {
	return func(stdout, _ io.Writer) *cli.Command {
		return &cli.Command{
			Name:  "quick",
			Usage: "interactively picks a project directory to scan, then runs the full pipeline",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "skip the confirmation prompt, allowing answers to be piped in",
				},
			}, helper.PipelineFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				p := prompter{in: bufio.NewReader(stdin), out: stdout}

				return action(ctx, cmd, p, isTerminal())
			},
		}
	}
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints the question and returns the trimmed answer, or def if the answer is empty
func (p prompter) ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	// an answer on the last line without a newline still counts
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.ErrUnexpectedEOF
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}

	return answer, nil
}

func action(ctx context.Context, cmd *cli.Command, p prompter, interactive bool) error {
	yes := cmd.Bool("yes")
	if !interactive && !yes {
		return ErrNotInteractive
	}

	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, tui.Heading("sbom-pipeline quick scan"))

	scanPath, err := p.ask("Directory containing the projects", cfg.DefaultScanPath)
	if err != nil {
		return fmt.Errorf("failed to read scan path: %w", err)
	}
	if scanPath == "" {
		return fmt.Errorf("%w: no scan path given", pipeline.ErrMissingOption)
	}

	subdirs, err := listSubdirectories(scanPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, tui.Heading("Projects"))
	for i, name := range subdirs {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, name)
	}

	subdir, err := choose(p, subdirs)
	if err != nil {
		return err
	}

	name, version := pipeline.ParseProjectInfo(subdir)
	fmt.Fprintln(p.out, tui.Field("Project", name))
	fmt.Fprintln(p.out, tui.Field("Version", version))

	if !yes {
		answer, err := p.ask("Continue? (y/N)", "")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			cmdlogger.Infof("Aborted")
			return nil
		}
	}

	result, err := pipeline.Run(ctx, helper.PipelineOptions(cmd, cfg, scanPath, subdir))
	if result != nil {
		fmt.Fprintln(p.out, tui.RenderSeverityCounts(result.Summary.Severities))
	}
	helper.PrintPipelineResult(result, p.out)

	return err
}

// listSubdirectories returns the names of the visible directories in dir, sorted by name
func listSubdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSubdirectories, filepath.Clean(dir))
	}

	return names, nil
}

// choose asks for one of the options by number or by name
func choose(p prompter, options []string) (string, error) {
	answer, err := p.ask(fmt.Sprintf("Select a project (1-%d)", len(options)), "")
	if err != nil {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidSelection, n, len(options))
		}

		return options[n-1], nil
	}

	for _, option := range options {
		if option == answer {
			return option, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSelection, answer)
}
