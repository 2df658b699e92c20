// Package errs defines the storefront error taxonomy. Every service returns
// either nil or an *Error so the HTTP layer can pick a status code and a
// machine readable kind without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the machine readable error class sent to clients.
type Kind string

const (
	Unauthorized    Kind = "unauthorized"
	NotFound        Kind = "not_found"
	InvalidArgument Kind = "invalid_argument"
	SoldOut         Kind = "sold_out"
	SizeUnavailable Kind = "size_unavailable"
	EmptyCart       Kind = "empty_cart"
	Configuration   Kind = "configuration_error"
	PaymentProvider Kind = "payment_provider_error"
	InvalidSig      Kind = "invalid_signature"
	Internal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, errs.E(errs.SoldOut, ""))
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// E builds an error of kind with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to a new error of kind.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of err, Internal for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal Server Error"
}
