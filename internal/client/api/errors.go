package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed API call. Status is the HTTP status code, zero when the
// request never reached the server. Message is the human-readable text the
// server supplied, or a transport description. Body holds the raw response
// body so callers can inspect fields the envelope does not surface.
type Error struct {
	Status  int
	Code    string
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// errorBody matches the server's error envelope. Older deployments used
// "msg" instead of "message", so both are accepted.
type errorBody struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Code    string `json:"code"`
}

// errorFromResponse builds an Error from a non-2xx response body.
func errorFromResponse(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status), Body: body}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		} else if parsed.Msg != "" {
			apiErr.Message = parsed.Msg
		}
		apiErr.Code = parsed.Code
	}
	return apiErr
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthentication reports whether the server rejected the caller's token.
func IsAuthentication(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusUnauthorized
}

// IsAuthorization reports whether the caller's role was insufficient.
func IsAuthorization(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusForbidden
}

// IsValidation reports whether the server rejected the payload.
func IsValidation(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusBadRequest
}

// IsNotFound reports whether the target record does not exist.
func IsNotFound(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusNotFound
}

// IsServer reports whether the failure was on the server side.
func IsServer(err error) bool {
	e, ok := asError(err)
	return ok && e.Status >= http.StatusInternalServerError
}
