package testutility

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is a request received by a MockHTTPServer
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type mockResponse struct {
	status int
	body   []byte
}

type MockHTTPServer struct {
	*httptest.Server
	mu       sync.Mutex
	response map[string]mockResponse // "METHOD path" or "path" -> response
	apiKey   string                  // expected X-Api-Key header contents
	requests []RecordedRequest
}

// NewMockHTTPServer starts and returns a new simple HTTP Server for mocking basic requests.
// The Server will automatically be shut down with Close() in the test Cleanup function.
//
// Use the SetResponse / SetResponseFromFile / SetMethodResponse to set the responses
// for specific URL paths. Query strings are ignored when matching paths.
func NewMockHTTPServer(t *testing.T) *MockHTTPServer {
	t.Helper()
	mock := &MockHTTPServer{response: make(map[string]mockResponse)}
	mock.Server = httptest.NewServer(mock)
	t.Cleanup(func() { mock.Server.Close() })

	return mock
}

// SetResponse sets the Server's response for the URL path to be response bytes, for any method.
func (m *MockHTTPServer) SetResponse(t *testing.T, path string, response []byte) {
	t.Helper()
	m.setResponse(strings.TrimPrefix(path, "/"), http.StatusOK, response)
}

// SetMethodResponse sets the Server's status code and response for requests to the
// URL path using the given method, taking priority over responses set with SetResponse.
func (m *MockHTTPServer) SetMethodResponse(t *testing.T, method, path string, status int, response []byte) {
	t.Helper()
	m.setResponse(method+" "+strings.TrimPrefix(path, "/"), status, response)
}

func (m *MockHTTPServer) setResponse(key string, status int, response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response[key] = mockResponse{status: status, body: response}
}

// SetResponseFromFile sets the Server's response for the URL path to be the contents of the file at filename.
func (m *MockHTTPServer) SetResponseFromFile(t *testing.T, path string, filename string) {
	t.Helper()
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read response file: %v", err)
	}
	m.SetResponse(t, path, b)
}

// SetAPIKey sets the contents of the 'X-Api-Key' header the server expects for all endpoints.
//
// The incoming requests' headers must match the key exactly, otherwise the server will response with 401 Unauthorized.
// If the key is unset or empty, the server will not require one.
func (m *MockHTTPServer) SetAPIKey(t *testing.T, key string) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKey = key
}

// Requests returns the requests the server has received so far, in order
func (m *MockHTTPServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]RecordedRequest(nil), m.requests...)
}

// ServeHTTP is the http.Handler for the underlying httptest.Server.
func (m *MockHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/")

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method:   r.Method,
		Path:     "/" + path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	wantKey := m.apiKey
	resp, ok := m.response[r.Method+" "+path]
	if !ok {
		resp, ok = m.response[path]
	}
	m.mu.Unlock()

	switch {
	case wantKey != "" && r.Header.Get("X-Api-Key") != wantKey:
		resp = mockResponse{status: http.StatusUnauthorized, body: []byte("unauthorized")}
	case !ok:
		resp = mockResponse{status: http.StatusNotFound, body: []byte("not found")}
	}

	w.WriteHeader(resp.status)
	if _, err := w.Write(resp.body); err != nil {
		log.Fatalf("Write: %v", err)
	}
}
