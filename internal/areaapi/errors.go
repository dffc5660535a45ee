package areaapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the area API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("area api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("area api: %d: %s", e.StatusCode, e.Message)
}

// errorBody covers both {"error": "..."} and FastAPI's {"detail": ...}.
type errorBody struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	if eb.Error != "" {
		apiErr.Message = eb.Error
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		apiErr.Message = detail
	}
	return apiErr
}
