package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInputTooLarge = "INPUT_TOO_LARGE"
	ErrCodeConversion    = "MARKDOWN_CONVERSION_FAILED"
	ErrCodePipeline      = "PIPELINE_FAILURE"
	ErrCodeFetchFailed   = "FETCH_FAILED"
	ErrCodeSearchFailed  = "SEARCH_FAILED"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PipelineError is the internal error type carrying an error code and,
// when known, the source URL being processed. It implements the error
// interface and supports error wrapping via Unwrap.
type PipelineError struct {
	Code    string
	Message string
	URL     string
	Err     error // wrapped original error
}

func (e *PipelineError) Error() string {
	switch {
	case e.Err != nil && e.URL != "":
		return fmt.Sprintf("%s: %s (url=%s): %v", e.Code, e.Message, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.URL != "":
		return fmt.Sprintf("%s: %s (url=%s)", e.Code, e.Message, e.URL)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(code, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// WrapWithURL attaches URL context to an arbitrary error, preserving an
// existing PipelineError's code if there is one. Applied exactly once, at
// the outermost pipeline boundary, so batch callers can tell which URL
// failed without unwrapping.
func WrapWithURL(url string, err error) *PipelineError {
	if pe, ok := err.(*PipelineError); ok {
		if pe.URL == "" {
			pe.URL = url
		}
		return pe
	}
	return &PipelineError{Code: ErrCodePipeline, Message: "pipeline failure", URL: url, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *PipelineError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
