// Package apperr defines the error kinds surfaced by the shop core. Services
// return *Error values; the HTTP layer maps the kind to a status code.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidRequest     Kind = "invalid_request"
	KindInvalidMember      Kind = "invalid_member"
	KindInvalidProduct     Kind = "invalid_product"
	KindDuplicateRequest   Kind = "duplicate_request"
	KindTransactionFailure Kind = "transaction_failure"
	KindAggregationFailure Kind = "aggregation_failure"
	KindNotFound           Kind = "not_found"
	KindUnauthorized       Kind = "unauthorized"
	KindInternal           Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns KindInternal for errors that did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidRequest, KindInvalidMember, KindInvalidProduct:
		return http.StatusBadRequest
	case KindDuplicateRequest:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
