package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure.
type Kind string

const (
	// KindNetwork: the request never produced a response.
	KindNetwork Kind = "network"
	// KindHTTP: the server answered with a non-2xx status.
	KindHTTP Kind = "http"
	// KindAuth: the server answered 401; the stored token was dropped.
	KindAuth Kind = "auth"
	// KindInvalidResponse: a 2xx answer whose body was not what the call expects.
	KindInvalidResponse Kind = "invalid_response"
)

// Machine codes for failures that do not come from the server.
const (
	CodeNetwork         = "NETWORK_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// User-facing messages.
const (
	MsgNetwork    = "Network error. Please check your connection."
	MsgAuthFailed = "Authentication failed. Please login again."
)

var (
	ErrNetwork         = errors.New("network error")
	ErrHTTP            = errors.New("http error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidResponse = errors.New("invalid response")
)

// Error is the typed failure returned by every Client call.
type Error struct {
	Kind    Kind
	Message string
	Code    string
	// Status is the HTTP status code, 0 when there was no response.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the package sentinels by kind. ErrHTTP matches auth failures too.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrHTTP:
		return e.Kind == KindHTTP || e.Kind == KindAuth
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	}
	return false
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Code: CodeNetwork, Err: err}
}

func invalidResponse(msg string, status int, err error) *Error {
	return &Error{Kind: KindInvalidResponse, Message: msg, Code: CodeInvalidResponse, Status: status, Err: err}
}

func defaultHTTPMessage(status int) string {
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

// Message returns the text to show a user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
