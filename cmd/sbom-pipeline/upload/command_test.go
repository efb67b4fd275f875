package upload_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbom-pipeline/sbom-pipeline/cmd/sbom-pipeline/internal/testcmd"
	"github.com/sbom-pipeline/sbom-pipeline/internal/config"
	"github.com/sbom-pipeline/sbom-pipeline/internal/dtrack"
	"github.com/sbom-pipeline/sbom-pipeline/internal/testutility"
)

const apiKey = "odt_upload_key"

func newServer(t *testing.T) *testutility.MockHTTPServer {
	t.Helper()

	server := testutility.NewMockHTTPServer(t)
	server.SetAPIKey(t, apiKey)
	server.SetResponseFromFile(t, dtrack.VersionEndpoint, "testdata/version.json")
	server.SetMethodResponse(t, http.MethodPost, dtrack.BOMEndpoint, http.StatusOK, []byte(`{"token":"upload-token"}`))

	return server
}

func TestCommand_Errors(t *testing.T) {
	t.Parallel()

	tests := []testcmd.Case{
		{
			Name:   "no_project",
			Args:   []string{"", "upload", "./testdata/bom.json"},
			Exit:   1,
			Stderr: []string{"Required flag"},
		},
		{
			Name:   "no_bom",
			Args:   []string{"", "upload", "--project", "webapp"},
			Exit:   1,
			Stderr: []string{"expected exactly 1 argument, the BOM to upload, but got 0"},
		},
		{
			Name:   "not_configured",
			Args:   []string{"", "upload", "--project", "webapp", "./testdata/bom.json"},
			Exit:   1,
			Stderr: []string{"missing required option: Dependency-Track server URL and API key must both be configured"},
		},
		{
			Name: "bom_does_not_exist",
			Args: []string{
				"", "upload", "--project", "webapp",
				"--server-url", "http://127.0.0.1:1", "--api-key", apiKey,
				"./testdata/does-not-exist.json",
			},
			Exit:   1,
			Stderr: []string{"failed to read BOM: open ./testdata/does-not-exist.json: no such file or directory"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			testcmd.Run(t, tt)
		})
	}
}

func TestCommand_ExistingProject(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	server.SetMethodResponse(t, http.MethodGet, dtrack.ProjectLookupEndpoint, http.StatusOK,
		[]byte(`{"uuid":"a6cf3c3d-9f4a-45a2-b7a7-5c1e6d0b0b21","name":"webapp","version":"2.1.0"}`))

	testcmd.Run(t, testcmd.Case{
		Args: []string{
			"", "upload",
			"--server-url", server.URL, "--api-key", apiKey,
			"--project", "webapp", "--project-version", "2.1.0",
			"./testdata/bom.json",
		},
		Exit: 0,
		Stdout: []string{
			"Connected to Dependency-Track v4.11.4",
			"Found existing project webapp 2.1.0 (a6cf3c3d-9f4a-45a2-b7a7-5c1e6d0b0b21)",
			"Uploaded bom.json to project webapp 2.1.0",
		},
	})

	var uploaded bool
	for _, req := range server.Requests() {
		if req.Method == http.MethodPost && req.Path == dtrack.BOMEndpoint {
			uploaded = true

			if !bytes.Contains(req.Body, []byte("a6cf3c3d-9f4a-45a2-b7a7-5c1e6d0b0b21")) {
				t.Errorf("expected the upload to reference the project")
			}
			if !bytes.Contains(req.Body, []byte("commons-text-1.9.jar")) {
				t.Errorf("expected the upload to contain the BOM")
			}
		}
	}
	if !uploaded {
		t.Errorf("expected the BOM to be uploaded")
	}
}

func TestCommand_CreatesProject(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	server.SetMethodResponse(t, http.MethodGet, dtrack.ProjectEndpoint, http.StatusOK, []byte(`[]`))
	server.SetMethodResponse(t, http.MethodPut, dtrack.ProjectEndpoint, http.StatusCreated,
		[]byte(`{"uuid":"11111111-2222-4333-8444-555555555555","name":"api","version":"unknown"}`))

	testcmd.Run(t, testcmd.Case{
		Args: []string{
			"", "upload",
			"--server-url", server.URL, "--api-key", apiKey,
			"--project", "api",
			"./testdata/bom.json",
		},
		Exit: 0,
		Stdout: []string{
			"Created project api unknown (11111111-2222-4333-8444-555555555555)",
			"Project api unknown was created",
		},
	})

	for _, req := range server.Requests() {
		if req.Method != http.MethodPut {
			continue
		}

		var created dtrack.Project
		if err := json.Unmarshal(req.Body, &created); err != nil {
			t.Fatalf("could not decode created project: %v", err)
		}

		want := dtrack.NewProject("api", "unknown", "", config.DefaultProjectTags)
		if diff := cmp.Diff(want, created); diff != "" {
			t.Errorf("created project mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCommand_WrongAPIKey(t *testing.T) {
	t.Parallel()

	server := newServer(t)

	testcmd.Run(t, testcmd.Case{
		Args: []string{
			"", "upload",
			"--server-url", server.URL, "--api-key", "not-the-key",
			"--project", "webapp",
			"./testdata/bom.json",
		},
		Exit:   1,
		Stderr: []string{"could not connect to Dependency-Track", `client error: status="401 Unauthorized" body=unauthorized`},
	})
}
