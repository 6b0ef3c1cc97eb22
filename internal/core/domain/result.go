package domain

import (
	"context"
	"errors"

	"go.trai.ch/zerr"
)

// Code is the outcome of a pipeline stage or of a whole build.
// The zero value is CodeSuccess.
type Code uint8

const (
	// CodeSuccess means the stage did its work.
	CodeSuccess Code = iota
	// CodeSuccessCached means the stage result was reused from the build cache.
	CodeSuccessCached
	// CodeError means the build failed and must be restarted after the input is fixed.
	CodeError
	// CodeCanceled means the build was stopped on request and can be retried.
	CodeCanceled
	// CodeUnsavedChanges means preflight refused to start the build.
	CodeUnsavedChanges
)

// Severity groups result codes by how a caller must react to them.
type Severity uint8

const (
	// SeverityOK lets the pipeline continue.
	SeverityOK Severity = iota
	// SeverityAborted stops the pipeline without a defect in the input.
	SeverityAborted
	// SeverityFatal stops the pipeline because of a defect in the input.
	SeverityFatal
)

// IsOK reports whether the pipeline may continue after a stage returned c.
func (c Code) IsOK() bool {
	return c.Severity() == SeverityOK
}

// Severity returns the class of c.
func (c Code) Severity() Severity {
	switch c {
	case CodeSuccess, CodeSuccessCached:
		return SeverityOK
	case CodeCanceled, CodeUnsavedChanges:
		return SeverityAborted
	default:
		return SeverityFatal
	}
}

// String returns the human-readable name of the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeSuccessCached:
		return "success (cached)"
	case CodeError:
		return "error"
	case CodeCanceled:
		return "canceled"
	case CodeUnsavedChanges:
		return "unsaved changes"
	default:
		return "unknown"
	}
}

// CodeOf maps an error returned by a stage onto its result code.
// A nil error is CodeSuccess; wrapped sentinels keep their code through any wrapping.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return CodeCanceled
	case errors.Is(err, ErrUnsavedChanges):
		return CodeUnsavedChanges
	default:
		return CodeError
	}
}

// Merge combines the codes of two successful steps: the result is cached only if both were.
func (c Code) Merge(other Code) Code {
	if !c.IsOK() {
		return c
	}
	if !other.IsOK() {
		return other
	}
	if c == CodeSuccessCached && other == CodeSuccessCached {
		return CodeSuccessCached
	}
	return CodeSuccess
}

// CanceledError returns the error a stage reports when it stops on request.
func CanceledError(stage string) error {
	return zerr.With(zerr.Wrap(ErrCanceled, "stage stopped"), "stage", stage)
}
