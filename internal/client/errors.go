package client

import (
	"errors"
	"fmt"

	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

// Kind classifies a failed client call.
type Kind string

const (
	// ValidationFailure is raised before any request is sent.
	ValidationFailure Kind = "ValidationFailure"
	// RequestFailure is a non-2xx answer or a response that breaks its schema.
	RequestFailure Kind = "RequestFailure"
	// NetworkFailure means no response was obtained, including timeouts.
	NetworkFailure Kind = "NetworkFailure"
	NotFound       Kind = "NotFound"
)

const networkMessage = "network error: the server could not be reached"

// ErrMutationPending is returned when a mutation for the same lead is already in flight.
var ErrMutationPending = errors.New("a change for this lead is already in progress")

type Error struct {
	Kind   Kind
	Status int
	Code   string
	Detail string
	Fields []usecase.ValidationError
	Err    error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the next poll or a manual retry may succeed.
func (e *Error) Transient() bool {
	return e.Kind == NetworkFailure || (e.Kind == RequestFailure && e.Status >= 500)
}

// KindOf returns the kind of a client error, or "" for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(fields []usecase.ValidationError) *Error {
	detail := "validation failed"
	if len(fields) > 0 {
		detail = fields[0].Error()
	}
	return &Error{Kind: ValidationFailure, Detail: detail, Fields: fields}
}

func networkError(err error) *Error {
	return &Error{Kind: NetworkFailure, Detail: networkMessage, Err: err}
}

func statusError(status int, body errorBody) *Error {
	detail := body.Detail
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", status)
	}
	kind := RequestFailure
	if status == 404 {
		kind = NotFound
	}
	return &Error{Kind: kind, Status: status, Code: body.Code, Detail: detail, Fields: body.Errors}
}

type errorBody struct {
	Detail string                    `json:"detail"`
	Code   string                    `json:"code"`
	Errors []usecase.ValidationError `json:"errors"`
}
