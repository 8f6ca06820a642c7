package imagemcp

import (
	"errors"
	"fmt"
)

// Kind identifies what went wrong while serving an image request.
type Kind string

const (
	// KindMissingCredential means no API key was available for the model service.
	KindMissingCredential Kind = "missing_credential"

	// KindInvalidFormat means an encoded image did not have the data URL shape
	// data:image/<subtype>;base64,<payload>.
	KindInvalidFormat Kind = "invalid_format"

	// KindInvalidEncoding means a data URL payload was not valid base64.
	KindInvalidEncoding Kind = "invalid_encoding"

	// KindUnrecognizedImage means the bytes did not parse as any supported raster format.
	KindUnrecognizedImage Kind = "unrecognized_image"

	// KindNotFound means an image file path does not exist.
	KindNotFound Kind = "not_found"

	// KindIOFailure covers any other error reading an image file.
	KindIOFailure Kind = "io_failure"

	// KindEmptyResponse means a text request returned no text.
	KindEmptyResponse Kind = "empty_response"

	// KindNoImageReturned means an image request returned no inline image.
	KindNoImageReturned Kind = "no_image_returned"

	// KindUpstreamFailure wraps anything raised by the model service or its transport.
	KindUpstreamFailure Kind = "upstream_failure"
)

// ErrorCategory classifies errors by who has to act on them.
// Nothing in this module retries; the category is informational.
type ErrorCategory string

const (
	// ErrorTransient indicates the failure is temporary (rate limits, server errors).
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the failure will repeat until configuration changes.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller must correct the request.
	ErrorUserInput ErrorCategory = "user_input"
)

// Error is a tagged error carrying its Kind, an optional HTTP status code
// from the model service, and the underlying cause.
type Error struct {
	Kind  Kind
	Msg   string
	Code  int   // HTTP status code, 0 if not applicable
	Cause error // underlying error
}

// NewError creates an error of the given kind.
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{
		Kind:  kind,
		Msg:   msg,
		Cause: cause,
	}
}

// Errorf creates an error of the given kind with a formatted message and no cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	switch e.Kind {
	case KindInvalidFormat, KindInvalidEncoding, KindUnrecognizedImage, KindNotFound:
		return ErrorUserInput
	case KindUpstreamFailure:
		return categorizeStatusCode(e.Code)
	default:
		return ErrorPermanent
	}
}

// categorizeStatusCode determines the error category from an HTTP status code.
// Errors without a status code are usually network failures and count as transient.
func categorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == 0:
		return ErrorTransient
	case code == 429:
		return ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return ErrorTransient // Server error
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput // Bad request or not found
	default:
		return ErrorPermanent
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsValidation reports whether err was caused by invalid caller input rather than
// by the model service.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindInvalidFormat, KindInvalidEncoding, KindUnrecognizedImage, KindNotFound:
		return true
	default:
		return false
	}
}

// IsTransient returns true if the error is categorized as transient.
func IsTransient(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category() == ErrorTransient
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a tagged error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return 0
}
