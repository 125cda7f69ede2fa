package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Violation is one validation failure reported by the backend
type Violation struct {
	Msg string `json:"msg"`
}

// APIError is a non-2xx backend response
type APIError struct {
	Status     int         `json:"-"`
	Msg        string      `json:"msg"`
	Violations []Violation `json:"violations,omitempty"`
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Is lets a 401 that survived the refresh retry match ErrUnauthenticated
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthenticated && e.Status == http.StatusUnauthorized
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		return apiErr
	}

	// Flask error handlers are not consistent: some use "msg", some "message",
	// some "error".
	var body struct {
		Msg        string      `json:"msg"`
		Message    string      `json:"message"`
		Error      string      `json:"error"`
		Violations []Violation `json:"violations"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	apiErr.Violations = body.Violations
	switch {
	case body.Msg != "":
		apiErr.Msg = body.Msg
	case body.Message != "":
		apiErr.Msg = body.Message
	default:
		apiErr.Msg = body.Error
	}
	return apiErr
}
