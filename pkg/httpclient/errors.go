package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 1 << 20

// StatusError is a non-2xx HTTP response, with its body read and closed.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, ExtractMessage(e.StatusCode, e.Body))
}

// ReadStatusError consumes and closes resp.Body and returns it as a *StatusError.
func ReadStatusError(resp *http.Response) *StatusError {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		body = nil
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: body}
}

// errorBody covers both the flat {"message": ...} shape and the nested
// {"error": {"code": ..., "message": ...}} envelope.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExtractMessage returns the human-readable message of an error body. It looks
// at a top-level "message" field, then "error.message", then a plain-text body,
// and finally falls back to the status text. It never fails.
func ExtractMessage(status int, body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		var nested nestedError
		if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &flat) == nil && flat != "" {
			return flat
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "<") && len(trimmed) <= 200 {
		return trimmed
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// IsClientError reports whether status is a 4xx code.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
