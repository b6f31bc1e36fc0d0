package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	MessageAuthRequired     = "authorization required, please log in"
	MessageNetwork          = "network error, check your internet connection"
	MessageParse            = "failed to process the server response"
	MessageUnknown          = "an unknown error occurred, please try again"
	MessageEndpointNotFound = "the server cannot process the request, check the API endpoint URL"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "authorization required, please log in",
	http.StatusForbidden:           "access denied",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusConflict:            "data conflict",
	http.StatusInternalServerError: "internal server error, please try again later",
}

// Error is a failed API call. Status is the HTTP status code, or 0 when no
// response was received at all.
type Error struct {
	Status  int
	Message string
	// Data is the parsed response body, if any.
	Data json.RawMessage
	Err  error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) IsNetwork() bool {
	return e.Status == 0
}

// Field returns the input field the server blamed for the failure, when the
// response body carries one, e.g. {"message": "...", "field": "email"}.
func (e *Error) Field() string {
	var body struct {
		Field string `json:"field"`
	}
	if len(e.Data) == 0 || json.Unmarshal(e.Data, &body) != nil {
		return ""
	}
	return body.Field
}

// StatusOf returns the status of an *Error in err's chain, -1 when there is none.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// MessageOf returns a message fit for the user.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func newHTTPError(status int, data json.RawMessage) *Error {
	return &Error{
		Status:  status,
		Message: resolveMessage(status, data),
		Data:    data,
	}
}

// resolveMessage prefers what the server said: "message", then "error", then
// a bare string body. Only then the status table is used.
func resolveMessage(status int, data json.RawMessage) string {
	if len(data) > 0 {
		var body map[string]any
		if err := json.Unmarshal(data, &body); err == nil {
			if msg, ok := body["message"].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
			if msg, ok := body["error"].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
		var text string
		if err := json.Unmarshal(data, &text); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
		return fmt.Sprintf("error %d: %s", status, MessageEndpointNotFound)
	case statusMessages[status] != "":
		return statusMessages[status]
	case status >= 500:
		return statusMessages[http.StatusInternalServerError]
	default:
		return MessageUnknown
	}
}
