package catalog

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EFETCH    = "fetch"     // network or HTTP failure
	EPARSE    = "parse"     // document structurally unusable
	EMISSING  = "missing"   // an expected field is absent or malformed
	ELOOKUP   = "lookup"    // pricing endpoint failed or answered unexpectedly
	EINVALID  = "invalid"   // invalid input or configuration
	ENOTFOUND = "not_found" // stored record does not exist
	EINTERNAL = "internal"  // everything else
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// MissingField returns an EMISSING error naming the field that could not be extracted.
func MissingField(field string) *Error {
	return &Error{
		Code:    EMISSING,
		Field:   field,
		Message: fmt.Sprintf("missing field %q", field),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the error text as is.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ErrorField returns the field name carried by an EMISSING error, or "".
func ErrorField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
