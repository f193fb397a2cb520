package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/praxisware/tpflow/internal/components/httpclient"
)

// APIError is the only error type this package returns. Message is always
// human-readable: the server's message when one was supplied, otherwise a
// generic per-operation fallback. Raw transport errors never escape.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// IsNotFound reports whether err is an APIError for a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// normalizeError converts any failure from the HTTP layer into an
// APIError. A 401 additionally fires the session's OnUnauthorized hook.
func normalizeError(op, fallback string, session *Session, err error) error {
	if err == nil {
		return nil
	}
	apiErr := &APIError{Op: op, Message: fallback}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		apiErr.StatusCode = statusErr.StatusCode
		if msg := serverMessage(statusErr.Body); msg != "" {
			apiErr.Message = msg
		}
		if statusErr.StatusCode == http.StatusUnauthorized {
			session.unauthorized()
		}
	}
	return apiErr
}

// serverMessage extracts the message field from an error payload.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	return strings.TrimSpace(payload.Error)
}
