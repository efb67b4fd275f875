package dtrack

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrProjectNotFound is returned when no project matches the requested name and version
var ErrProjectNotFound = errors.New("project not found")

// ResponseError describes a response from Dependency-Track with an unexpected status code
type ResponseError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ResponseError) Error() string {
	kind := "server error"
	if e.IsClientError() {
		kind = "client error"
	}

	return fmt.Sprintf("%s: status=%q body=%s", kind, e.Status, e.Body)
}

// IsClientError reports whether the request was rejected with a 4xx status,
// in which case retrying it will not help
func (e *ResponseError) IsClientError() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

type ErrDuringPaging struct {
	PageDepth int
	Inner     error
}

func (e *ErrDuringPaging) Error() string {
	return fmt.Sprintf("error during paging at page %d - %s", e.PageDepth, e.Inner)
}

func (e *ErrDuringPaging) Unwrap() error {
	return e.Inner
}
