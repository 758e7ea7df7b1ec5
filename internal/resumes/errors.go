package resumes

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindUnsupportedFormat                Kind = "unsupported_format"
	KindEmptyFile                        Kind = "empty_file"
	KindExtractionFailed                 Kind = "extraction_failed"
	KindInsufficientContent              Kind = "insufficient_content"
	KindInsufficientContentAfterCleaning Kind = "insufficient_content_after_cleaning"
	KindInternal                         Kind = "internal"
)

// ErrNotFound is returned when an analysis id does not exist.
var ErrNotFound = errors.New("analysis not found")

// PipelineError is a terminal request failure with a message safe to show the caller.
type PipelineError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to a response status: internal failures are 500, the rest 400.
func (e *PipelineError) HTTPStatus() int {
	if e.Kind == KindInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func newPipelineError(kind Kind, err error, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}
