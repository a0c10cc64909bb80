package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the transport layer.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

// Store error codes. The record store reduces driver-level failures to this
// fixed vocabulary so the import pipeline never branches on raw SQLSTATEs.
const (
	CodeForbidden          = "FORBIDDEN"
	CodeRecordNotUnique    = "RECORD_NOT_UNIQUE"
	CodeValueTooLong       = "VALUE_TOO_LONG"
	CodeInvalidPayload     = "INVALID_PAYLOAD"
	CodeFailedValidation   = "FAILED_VALIDATION"
	CodeFieldInvalid       = "FIELD_INVALID"
	CodeContainsNullValues = "CONTAINS_NULL_VALUES"
	CodeValueOutOfRange    = "VALUE_OUT_OF_RANGE"
	CodeUnknown            = "UNKNOWN"
)

// PreconditionError indicates the job cannot start at all (missing inputs,
// empty file, no valid rows, missing key field). Message is already localized.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string   { return e.Message }
func (e *PreconditionError) StatusCode() int { return http.StatusBadRequest }

// PermissionError indicates the caller lacks rights on the target collection
// or on an individual write.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string   { return e.Message }
func (e *PermissionError) StatusCode() int { return http.StatusForbidden }

// Is allows errors.Is() to match against ErrForbidden
func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// FieldError is a single field-level validation failure reported by the store.
type FieldError struct {
	Field   string
	Code    string
	Type    string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Code, e.Field, e.Message)
}

// ValidationError carries one or more field-level failures for a single write.
// A store rejecting an item always wraps the detail in this shape, so the
// error classifier has exactly one variant to unpack instead of sniffing
// driver-specific types at every call site.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return strings.Join(parts, "; ")
}

// Code returns the code of the first field failure, or CodeUnknown.
func (e *ValidationError) Code() string {
	if len(e.Fields) > 0 && e.Fields[0].Code != "" {
		return e.Fields[0].Code
	}
	return CodeUnknown
}

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
