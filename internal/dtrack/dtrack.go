// Package dtrack is a client for the parts of the Dependency-Track REST API
// needed to publish a BOM: connectivity, project lookup and creation, and BOM upload.
package dtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// VersionEndpoint reports the server version, and is used as a connectivity check
	VersionEndpoint = "/api/version"
	// ProjectEndpoint lists projects on GET, and creates them on PUT
	ProjectEndpoint = "/api/v1/project"
	// ProjectLookupEndpoint finds a single project by name and version
	ProjectLookupEndpoint = "/api/v1/project/lookup"
	// BOMEndpoint accepts multipart BOM uploads
	BOMEndpoint = "/api/v1/bom"

	// APIKeyHeader carries the API key on every request
	APIKeyHeader = "X-Api-Key"
	// TotalCountHeader is set on paginated responses
	TotalCountHeader = "X-Total-Count"
)

type Client struct {
	HTTPClient  *http.Client
	Config      ClientConfig
	BaseHostURL string
	APIKey      string
}

// NewClient creates a client for the Dependency-Track server at baseURL
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Config:      DefaultConfig(),
		BaseHostURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:      apiKey,
	}
}

// Version fetches the server version
func (c *Client) Version(ctx context.Context) (*ServerVersion, error) {
	var v ServerVersion
	if _, err := c.getJSON(ctx, VersionEndpoint, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// ListProjects fetches every project on the server, following pagination
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	pageSize := max(c.Config.PageSize, 1)
	var projects []Project

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(pageSize))
		query.Set("pageNumber", strconv.Itoa(page))

		var batch []Project
		header, err := c.getJSON(ctx, ProjectEndpoint+"?"+query.Encode(), &batch)
		if err != nil {
			if page == 1 {
				return nil, err
			}

			return nil, &ErrDuringPaging{PageDepth: page, Inner: err}
		}

		projects = append(projects, batch...)

		total, err := strconv.Atoi(header.Get(TotalCountHeader))
		if len(batch) < pageSize || (err == nil && len(projects) >= total) {
			break
		}
	}

	return projects, nil
}

// LookupProject fetches the project with exactly the given name and version.
//
// ErrProjectNotFound is returned if there is no such project.
func (c *Client) LookupProject(ctx context.Context, name, version string) (*Project, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("version", version)

	var p Project
	_, err := c.getJSON(ctx, ProjectLookupEndpoint+"?"+query.Encode(), &p)

	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrProjectNotFound, name, version)
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// FindProject finds the project with the given name and version, trying the
// lookup endpoint before searching through the full project list
func (c *Client) FindProject(ctx context.Context, name, version string) (*Project, error) {
	p, err := c.LookupProject(ctx, name, version)
	if !errors.Is(err, ErrProjectNotFound) {
		return p, err
	}

	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range projects {
		if candidate.Name == name && candidate.Version == version {
			return &candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: %s %s", ErrProjectNotFound, name, version)
}

// CreateProject creates a new project, returning it as stored by the server
func (c *Client) CreateProject(ctx context.Context, project Project) (*Project, error) {
	requestBytes, err := json.Marshal(project)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, ProjectEndpoint, bytes.NewReader(requestBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var created Project
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created project: %w", err)
	}

	return &created, nil
}

// FindOrCreateProject finds the project with the given name and version,
// creating it with the given tags if it does not exist yet.
// The returned bool reports whether the project was created.
func (c *Client) FindOrCreateProject(ctx context.Context, name, version string, tags []string) (*Project, bool, error) {
	p, err := c.FindProject(ctx, name, version)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return nil, false, err
	}

	p, err = c.CreateProject(ctx, NewProject(name, version, "", tags))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create project: %w", err)
	}

	return p, true, nil
}

// UploadBOM uploads a CycloneDX BOM to the project with the given UUID.
// Processing happens asynchronously on the server, tracked by the returned token.
func (c *Client) UploadBOM(ctx context.Context, projectUUID, fileName string, bom []byte) (*UploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("project", projectUUID); err != nil {
		return nil, err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="bom"; filename=%q`, fileName))
	header.Set("Content-Type", "application/json")

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(bom); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, BOMEndpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var uploaded UploadResponse
	// older servers answer with an empty body
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &uploaded, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseHostURL+endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(APIKeyHeader, c.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	return req, nil
}

// getJSON performs a retried GET request, decoding the response body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) (http.Header, error) {
	resp, err := c.makeRetryRequest(ctx, func(hc *http.Client) (*http.Response, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		return hc.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	return resp.Header, nil
}

// do performs a single request, returning an error for non-2xx responses
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkResponseError(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// makeRetryRequest retries action on network errors and server errors with a
// jittered backoff. Client errors are returned straight away.
func (c *Client) makeRetryRequest(ctx context.Context, action func(hc *http.Client) (*http.Response, error)) (*http.Response, error) {
	var lastErr error

	for i := range max(c.Config.MaxRetryAttempts, 1) {
		if i > 0 {
			// rand is initialized with a random number (since go1.20), and is also safe to use concurrently
			// we do not need to use a cryptographically secure random jitter, this is just to spread out the retry requests
			// #nosec G404
			jitterAmount := rand.Float64() * c.Config.JitterMultiplier * float64(i)
			backoff := time.Duration(float64(i*i)*c.Config.BackoffDurationMultiplier*float64(time.Second)) +
				time.Duration(jitterAmount*1000)*time.Millisecond

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := action(c.HTTPClient)
		if err == nil {
			err = checkResponseError(resp)
			if err == nil {
				return resp, nil
			}

			var respErr *ResponseError
			if errors.As(err, &respErr) && respErr.IsClientError() {
				return nil, err
			}
		}

		if ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// checkResponseError checks if the response has an error.
func checkResponseError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	respBuf, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response from server: %w", err)
	}

	return &ResponseError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(respBuf),
	}
}
