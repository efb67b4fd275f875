package testutility

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

var (
	reportTimestampPattern = regexp.MustCompile(`_\d{8}_\d{6}\b`)
	durationPattern        = regexp.MustCompile(`completed in \d+(\.\d+)?(ns|µs|ms|s|m\d+s|h\d+m\d+s)`)
	mockServerPattern      = regexp.MustCompile(`http://(127\.0\.0\.1|\[::1\]):\d+`)
	ansiPattern            = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// normalizeFilePathsOnOutput tries to ensure lines in the given `output` are
// less than 250 characters by normalizing any file paths that are present
func normalizeFilePathsOnOutput(t *testing.T, output string) string {
	t.Helper()

	builder := strings.Builder{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		text := scanner.Text()
		if len(text) <= 250 {
			text = normalizeFilePaths(t, text)
		}

		// Always replace \\ because it could be in a long JSON output
		text = strings.ReplaceAll(text, "\\\\", "/")
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	// Match ending new line
	if strings.HasSuffix(output, "\n") {
		return builder.String()
	}

	return strings.TrimSuffix(builder.String(), "\n")
}

// normalizeFilePaths attempts to normalize any file paths in the given `output`
// so that they can be compared reliably regardless of the file path separator
// being used.
//
// Namely, escaped forward slashes are replaced with backslashes.
func normalizeFilePaths(t *testing.T, output string) string {
	t.Helper()
	return strings.ReplaceAll(strings.ReplaceAll(output, "\\\\", "/"), "\\", "/")
}

// normalizeRootDirectory attempts to replace references to the current working
// directory with "<rootdir>", in order to reduce the noise of the cmp diff
func normalizeRootDirectory(t *testing.T, str string) string {
	t.Helper()

	cwd, err := os.Getwd()
	if err != nil {
		t.Errorf("could not get cwd (%v) - results and diff might be inaccurate!", err)
	}

	cwd = normalizeFilePaths(t, cwd)

	str = strings.ReplaceAll(str, cwd, "<rootdir>")

	// Replace versions without the root as well
	var root string
	if runtime.GOOS == "windows" {
		root = filepath.VolumeName(cwd) + "\\"
	}

	if strings.HasPrefix(cwd, "/") {
		root = "/"
	}

	return strings.ReplaceAll(str, cwd[len(root):], "<rootdir>")
}

// normalizeTempDirectory attempts to replace references to the temp directory
// with "<tempdir>", to ensure tests pass across different OSs
func normalizeTempDirectory(t *testing.T, str string) string {
	t.Helper()

	//nolint:gocritic // ensure that the directory doesn't end with a trailing slash
	tempDir := normalizeFilePaths(t, filepath.Join(os.TempDir()))
	re := regexp.MustCompile(regexp.QuoteMeta(tempDir+`/`+TempDirPrefix) + `\d+`)

	return re.ReplaceAllString(str, "<tempdir>")
}

// normalizeErrors attempts to replace error messages on alternative OSs with their
// known linux equivalents, to ensure tests pass across different OSs
func normalizeErrors(t *testing.T, str string) string {
	t.Helper()

	str = strings.ReplaceAll(str, "The filename, directory name, or volume label syntax is incorrect.", "no such file or directory")
	str = strings.ReplaceAll(str, "The system cannot find the path specified.", "no such file or directory")
	str = strings.ReplaceAll(str, "The system cannot find the file specified.", "no such file or directory")
	str = strings.ReplaceAll(str, "CreateFile", "stat")

	return str
}

// normalizeTimings replaces report directory timestamps and scan durations,
// which change on every run
func normalizeTimings(t *testing.T, str string) string {
	t.Helper()

	str = reportTimestampPattern.ReplaceAllString(str, "_<timestamp>")

	return durationPattern.ReplaceAllString(str, "completed in <duration>")
}

// normalizeMockServer replaces the address of a MockHTTPServer, whose port
// changes on every run
func normalizeMockServer(t *testing.T, str string) string {
	t.Helper()

	return mockServerPattern.ReplaceAllString(str, "<mockserver>")
}

// normalizeColors strips terminal color codes, which depend on whether the
// tests are attached to a terminal
func normalizeColors(t *testing.T, str string) string {
	t.Helper()

	return ansiPattern.ReplaceAllString(str, "")
}

// NormalizeOutput applies a series of normalizes to the buffer from a std stream like stdout and stderr
func NormalizeOutput(t *testing.T, str string) string {
	t.Helper()

	for _, normalizer := range []func(t *testing.T, str string) string{
		normalizeFilePathsOnOutput,
		normalizeTempDirectory,
		normalizeRootDirectory,
		normalizeErrors,
		normalizeTimings,
		normalizeMockServer,
		normalizeColors,
	} {
		str = normalizer(t, str)
	}

	return str
}
