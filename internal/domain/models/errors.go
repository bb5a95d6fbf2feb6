package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can distinguish
// "history too short" from "network failure" without inspecting error text.
type ErrorKind string

const (
	KindInsufficientData    ErrorKind = "insufficient_data"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindParse               ErrorKind = "parse"
	KindBothModelsFailed    ErrorKind = "both_models_failed"
)

// PipelineError is a classified failure at one pipeline stage.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError wraps err with a kind and the operation that failed.
func NewPipelineError(kind ErrorKind, op string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

// PipelineErrorf builds a classified error from a format string.
func PipelineErrorf(kind ErrorKind, op, format string, a ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: fmt.Errorf(format, a...)}
}

// KindOf extracts the error kind from err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
