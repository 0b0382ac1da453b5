package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies terminal model failures.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	Transient
	Auth
	InvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Auth:
		return "auth"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// ModelError is the only error type the model client surfaces to callers.
type ModelError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("model %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("model %s error: %s", e.Kind, e.Message)
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewError builds a ModelError whose message is err's text.
func NewError(kind ErrorKind, err error) *ModelError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &ModelError{Kind: kind, Message: msg, Err: err}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return Classify(err).Kind == Transient
}

// KindFromStatus maps an HTTP status code from an inference endpoint to an ErrorKind.
func KindFromStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return Auth
	case code == http.StatusRequestTimeout, code == http.StatusConflict, code == http.StatusTooManyRequests:
		return Transient
	case code == 424: // Bedrock ModelErrorException, raised while a model is warming up
		return Transient
	case code >= 500:
		return Transient
	case code >= 400:
		return InvalidRequest
	default:
		return Unknown
	}
}

// StatusError is returned by HTTP-level transports for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Classify converts any error into a *ModelError. Errors that are already
// ModelErrors pass through unchanged.
func Classify(err error) *ModelError {
	if err == nil {
		return nil
	}
	var mErr *ModelError
	if errors.As(err, &mErr) {
		return mErr
	}
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return NewError(KindFromStatus(sErr.Code), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewError(Transient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewError(Transient, err)
	}
	return NewError(Unknown, err)
}
