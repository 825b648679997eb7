package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure marks transport errors and non-OK upstream statuses.
	ErrNetworkFailure = errors.New("network failure")
	// ErrParseFailure marks malformed upstream payloads.
	ErrParseFailure = errors.New("parse failure")
	// ErrProviderUnavailable is returned when no source is configured.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// FailureKind classifies a FetchError.
type FailureKind string

const (
	KindNetwork FailureKind = "network"
	KindParse   FailureKind = "parse"
)

// FetchError captures a failed upstream call.
type FetchError struct {
	Kind       FailureKind
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind) + " failure"
	}
	if e.Endpoint != "" {
		msg = e.Endpoint + ": " + msg
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *FetchError) Is(target error) bool {
	switch e.Kind {
	case KindNetwork:
		return target == ErrNetworkFailure
	case KindParse:
		return target == ErrParseFailure
	}
	return false
}

// NetworkError builds a network-kind FetchError.
func NetworkError(endpoint string, status int, message string, err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Endpoint: endpoint, StatusCode: status, Message: message, Err: err}
}

// ParseError builds a parse-kind FetchError.
func ParseError(endpoint string, err error) *FetchError {
	return &FetchError{Kind: KindParse, Endpoint: endpoint, Message: "decode response", Err: err}
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
